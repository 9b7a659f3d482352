// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. This package implements the repository pattern for the
// order domain aggregate, handling the conversion between domain entities
// and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/discount"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The order number carries a unique index: it is what turns a numbering race
// between two concurrent checkouts into a conflict the loser can retry.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number        string    `gorm:"size:16;uniqueIndex"`
	DetailsID     uuid.UUID `gorm:"type:uuid;index"`
	ShippingFee   float64
	Total         float64
	PaymentType   string `gorm:"size:32"`
	PaymentStatus int
	Status        int `gorm:"index"`
	Courier       *string
	AWB           *string
	ShipmentID    *string
	CreatedAt     time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one item snapshot row of an order.
type ItemDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ProductID uuid.UUID `gorm:"type:uuid"`
	Size      string    `gorm:"size:16"`
	Quantity  int
	Price     float64
	Weight    *float64
}

// TableName specifies the database table name for order item snapshots.
func (ItemDTO) TableName() string {
	return "order_items"
}

// DiscountLinkDTO is one discount application link row of an order.
type DiscountLinkDTO struct {
	ID      int64     `gorm:"primaryKey;autoIncrement"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`
	Code    string    `gorm:"size:64"`
	Type    string    `gorm:"size:32"`
	Value   float64
}

// TableName specifies the database table name for order discount links.
func (DiscountLinkDTO) TableName() string {
	return "order_discounts"
}

// fromDomain converts an order domain aggregate to its database rows: the
// order row plus one row per item snapshot and discount link.
func fromDomain(aggregate *order.Order) (OrderDTO, []ItemDTO, []DiscountLinkDTO) {
	orderID := aggregate.ID().Bytes()

	dto := OrderDTO{
		ID:            orderID,
		Number:        aggregate.Number(),
		DetailsID:     aggregate.DetailsID().Bytes(),
		ShippingFee:   aggregate.ShippingFee(),
		Total:         aggregate.Total(),
		PaymentType:   string(aggregate.PaymentType()),
		PaymentStatus: int(aggregate.PaymentStatus()),
		Status:        int(aggregate.Status()),
		CreatedAt:     aggregate.CreatedAt(),
	}

	if shipment := aggregate.Shipment(); shipment != nil {
		courier := shipment.Courier()
		awb := shipment.AWB()
		shipmentID := shipment.ShipmentID()
		dto.Courier = &courier
		dto.AWB = &awb
		dto.ShipmentID = &shipmentID
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:   orderID,
			ProductID: item.ProductID().Bytes(),
			Size:      item.Size(),
			Quantity:  item.Quantity(),
			Price:     item.Price(),
			Weight:    item.Weight(),
		})
	}

	links := make([]DiscountLinkDTO, 0, len(aggregate.Discounts()))
	for _, app := range aggregate.Discounts() {
		links = append(links, DiscountLinkDTO{
			OrderID: orderID,
			Code:    app.Code(),
			Type:    string(app.Type()),
			Value:   app.Value(),
		})
	}

	return dto, items, links
}

// toDomain converts database rows back into an order domain aggregate using
// RestoreOrder, keeping the stored total as-is.
func toDomain(dto OrderDTO, itemDTOs []ItemDTO, linkDTOs []DiscountLinkDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	detailsID, err := kernel.UUIDFromBytes(dto.DetailsID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		productID, productErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if productErr != nil {
			return nil, productErr
		}

		item, itemErr := order.NewItem(productID, itemDTO.Size, itemDTO.Quantity, itemDTO.Price, itemDTO.Weight)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	discounts := make([]discount.Application, 0, len(linkDTOs))
	for _, linkDTO := range linkDTOs {
		app, appErr := discount.NewApplication(linkDTO.Code, discount.Type(linkDTO.Type), linkDTO.Value)
		if appErr != nil {
			return nil, appErr
		}
		discounts = append(discounts, app)
	}

	var shipment *order.Shipment
	if dto.Courier != nil && dto.AWB != nil && dto.ShipmentID != nil {
		restored, shipmentErr := order.NewShipment(*dto.Courier, *dto.AWB, *dto.ShipmentID)
		if shipmentErr != nil {
			return nil, shipmentErr
		}
		shipment = &restored
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		detailsID,
		items,
		discounts,
		dto.ShippingFee,
		dto.Total,
		order.PaymentType(dto.PaymentType),
		order.PaymentStatus(dto.PaymentStatus),
		order.Status(dto.Status),
		shipment,
		dto.CreatedAt,
	)
}

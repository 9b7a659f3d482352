package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/sqlerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its item snapshots and discount links.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items, links := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return sqlerr.Classify("insert order", err)
	}
	if len(items) > 0 {
		if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
			return sqlerr.Classify("insert order items", err)
		}
	}
	if len(links) > 0 {
		if err := r.db.WithContext(ctx).Create(&links).Error; err != nil {
			return sqlerr.Classify("insert order discounts", err)
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order row. Items and discount links are
// immutable after checkout, so only the order row is rewritten; all columns
// are included so cleared shipment fields become NULL again.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, _, _ := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return sqlerr.Classify("update order", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID, including its items and discount links.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, sqlerr.Classify("select order", err)
	}

	return r.loadAggregate(ctx, dto)
}

// LastNumber returns the most recently issued order number, or the empty
// string when no order exists yet. Later number series are longer, so the
// ordering is by length first and lexicographically within a series.
func (r *GormOrderRepository) LastNumber(ctx context.Context) (string, error) {
	var number string
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("number").
		Order("length(number) DESC, number DESC").
		Limit(1).
		Scan(&number).Error
	if err != nil {
		return "", sqlerr.Classify("select last order number", err)
	}

	return number, nil
}

// GetAllInStatus retrieves all orders currently in the given status.
func (r *GormOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "status = ?", int(status)).Error; err != nil {
		return nil, sqlerr.Classify("select orders by status", err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := r.loadAggregate(ctx, dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}

// CountByDetailsID returns how many orders reference the given details record.
func (r *GormOrderRepository) CountByDetailsID(ctx context.Context, detailsID kernel.UUID) (int64, error) {
	if err := detailsID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("details_id = ?", detailsID.Bytes()).
		Count(&count).Error
	if err != nil {
		return 0, sqlerr.Classify("count orders by details", err)
	}

	return count, nil
}

// DeleteItems removes the order's item rows. Absent rows are not an error.
func (r *GormOrderRepository) DeleteItems(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Delete(&ItemDTO{}).Error
	return sqlerr.Classify("delete order items", err)
}

// DeleteDiscountLinks removes the order's discount link rows. Absent rows
// are not an error.
func (r *GormOrderRepository) DeleteDiscountLinks(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Delete(&DiscountLinkDTO{}).Error
	return sqlerr.Classify("delete order discounts", err)
}

// Delete removes the order row itself. An absent row is not an error.
func (r *GormOrderRepository) Delete(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Where("id = ?", orderID.Bytes()).
		Delete(&OrderDTO{}).Error
	return sqlerr.Classify("delete order", err)
}

func (r *GormOrderRepository) loadAggregate(ctx context.Context, dto OrderDTO) (*order.Order, error) {
	var items []ItemDTO
	if err := r.db.WithContext(ctx).Find(&items, "order_id = ?", dto.ID).Error; err != nil {
		return nil, sqlerr.Classify("select order items", err)
	}

	var links []DiscountLinkDTO
	if err := r.db.WithContext(ctx).Find(&links, "order_id = ?", dto.ID).Error; err != nil {
		return nil, sqlerr.Classify("select order discounts", err)
	}

	return toDomain(dto, items, links)
}

package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersQueryHandler reads the order listing straight from the database.
// Joins the details record for the customer name so the listing needs no
// extra round trips.
//
// Example:
//
//	handler := NewGetOrdersQueryHandler(db)
//	orders, err := handler.Handle(ctx, NewGetOrdersQuery())
//	if err != nil {
//	    log.Printf("failed to list orders: %v", err)
//	    return err
//	}
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listing queries.
// Requires a GORM database connection for query execution.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the listing query. Results are sorted newest first.
func (h GetOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersQuery,
) ([]GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			o.id,
			o.number,
			COALESCE(d.first_name || ' ' || d.last_name, ''),
			o.status,
			o.payment_type,
			o.payment_status,
			o.total,
			COALESCE(o.courier, ''),
			COALESCE(o.awb, ''),
			o.created_at
		FROM orders o
		LEFT JOIN order_details d ON d.id = o.details_id
	`
	args := make([]any, 0, 1)
	if status, ok := query.Status(); ok {
		sql += ` WHERE o.status = ?`
		args = append(args, int(status))
	}
	sql += ` ORDER BY o.created_at DESC`

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOrdersQueryResponse, 0)
	for rows.Next() {
		var resp GetOrdersQueryResponse
		var id uuid.UUID
		var status int
		var paymentType string
		var paymentStatus int

		err = rows.Scan(
			&id,
			&resp.Number,
			&resp.CustomerName,
			&status,
			&paymentType,
			&paymentStatus,
			&resp.Total,
			&resp.Courier,
			&resp.AWB,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.Status = order.Status(status).String()
		resp.PaymentType = paymentType
		resp.PaymentStatus = order.PaymentStatus(paymentStatus).String()

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

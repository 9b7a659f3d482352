// Package queries contains read-only operations for retrieving system state.
// Implements the Query side of the CQRS architecture: handlers read straight
// from the database and return plain response structs, bypassing the domain
// aggregates.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery or NewGetOrdersQueryInStatus constructor",
)

// GetOrdersQuery retrieves orders for the admin listing, newest first,
// optionally narrowed to one lifecycle status.
//
// Example:
//
//	query := NewGetOrdersQueryInStatus(order.Shipped)
//	handler := NewGetOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list orders: %w", err)
//	}
//	fmt.Printf("%d orders in transit\n", len(orders))
type GetOrdersQuery struct {
	status    order.Status
	hasStatus bool

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates a query that retrieves every order.
func NewGetOrdersQuery() GetOrdersQuery {
	return GetOrdersQuery{guard: guard.NewConstructorGuard()}
}

// NewGetOrdersQueryInStatus creates a query narrowed to orders in the given
// status.
func NewGetOrdersQueryInStatus(status order.Status) (GetOrdersQuery, error) {
	if err := status.Validate(); err != nil {
		return GetOrdersQuery{}, err
	}

	return GetOrdersQuery{
		status:    status,
		hasStatus: true,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through a constructor.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// Status returns the status filter and whether one was set.
func (q GetOrdersQuery) Status() (order.Status, bool) {
	return q.status, q.hasStatus
}

// GetOrdersQueryResponse is one row of the admin order listing.
type GetOrdersQueryResponse struct {
	ID            kernel.UUID
	Number        string
	CustomerName  string
	Status        string
	PaymentType   string
	PaymentStatus string
	Total         float64
	Courier       string
	AWB           string
	CreatedAt     time.Time
}

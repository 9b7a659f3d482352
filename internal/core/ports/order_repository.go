// Package ports defines the persistence and carrier contracts for the
// fulfillment core. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// An order is persisted together with its item snapshots and discount links;
// Add and Update write all of them within the repository's transaction.
type OrderRepository interface {
	// Add persists a new order aggregate with its items and discount links.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier,
	// including its items and discount links.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// LastNumber returns the most recently issued order number, or the
	// empty string when no order exists yet. The read must be consistent
	// within the surrounding transaction; the order number generator is a
	// pure function of its result.
	LastNumber(ctx context.Context) (string, error)

	// GetAllInStatus retrieves all orders currently in the given status.
	// Used by the tracking job to poll carrier updates for shipped orders.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// CountByDetailsID returns how many orders reference the given details
	// record. Deletion uses it to decide whether the record is solely owned.
	CountByDetailsID(ctx context.Context, detailsID kernel.UUID) (int64, error)

	// DeleteItems removes the order's item rows. Deleting an already absent
	// set of rows is not an error, so the cascading delete can be re-run.
	DeleteItems(ctx context.Context, orderID kernel.UUID) error

	// DeleteDiscountLinks removes the order's discount application links.
	// Idempotent like DeleteItems.
	DeleteDiscountLinks(ctx context.Context, orderID kernel.UUID) error

	// Delete removes the order row itself. Idempotent.
	Delete(ctx context.Context, orderID kernel.UUID) error
}

package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/details"
	"fulfillment/internal/core/domain/model/kernel"
)

// DetailsRepository defines the persistence contract for recipient/billing
// details records. A details record may be referenced by several orders.
type DetailsRepository interface {
	// Add persists a new details record.
	Add(ctx context.Context, record *details.Details) error

	// Get retrieves a details record by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*details.Details, error)

	// Delete removes a details record. Idempotent; the caller is
	// responsible for checking that no order still references it.
	Delete(ctx context.Context, id kernel.UUID) error
}

// ReviewRepository defines the persistence contract for product reviews as
// far as the fulfillment core needs it: reviews referencing an order must go
// away when the order is deleted.
type ReviewRepository interface {
	// DeleteForOrder removes all reviews referencing the order. Idempotent.
	DeleteForOrder(ctx context.Context, orderID kernel.UUID) error
}

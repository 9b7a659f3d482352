// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DetailsRepoFactory provides access to the details repository within a transaction.
	DetailsRepoFactory interface {
		DetailsRepository() ports.DetailsRepository
	}

	// ReviewRepoFactory provides access to the review repository within a transaction.
	ReviewRepoFactory interface {
		ReviewRepository() ports.ReviewRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only modify the order aggregate.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CheckoutUoW manages transactions spanning the order aggregate and its
	// details record. Checkout persists both atomically; shipment
	// registration reads both.
	CheckoutUoW interface {
		TxManager
		OrderRepoFactory
		DetailsRepoFactory
	}

	// CheckoutUoWFactory creates new checkout unit of work instances.
	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}

	// DeletionUoW manages transactions for the cascading order delete,
	// which touches reviews, discount links, items, the order row and
	// possibly the details record in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   reviewRepo := uow.ReviewRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	DeletionUoW interface {
		TxManager
		OrderRepoFactory
		DetailsRepoFactory
		ReviewRepoFactory
	}

	// DeletionUoWFactory creates new deletion unit of work instances.
	DeletionUoWFactory interface {
		Create() DeletionUoW
	}
)

package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	// deleteMaxAttempts bounds how often the cascading delete is retried
	// when it loses a lock or serialization race.
	deleteMaxAttempts = 3

	// deletionCancellationReason is sent to the carrier when a shipment is
	// cancelled because its order is being deleted.
	deletionCancellationReason = "order deleted"
)

// DeleteOrderCommandHandler permanently deletes an order and everything
// referencing it: reviews, discount links, item snapshots, the order row
// and, when no other order shares it, the details record.
//
// The whole cascade runs in one transaction and every step tolerates an
// already absent target, so a retried run converges instead of failing.
// Only storage conflicts are retried, with a fixed delay between attempts;
// any other error aborts immediately.
type DeleteOrderCommandHandler struct {
	uowFactory DeletionUoWFactory
	gateway    ports.ShipmentGateway
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewDeleteOrderCommandHandler creates a handler for order deletion.
// retryDelay is the pause between conflicted attempts.
func NewDeleteOrderCommandHandler(
	uowFactory DeletionUoWFactory,
	gateway ports.ShipmentGateway,
	logger *slog.Logger,
	retryDelay time.Duration,
) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger,
		retryDelay: retryDelay,
	}
}

// Handle processes the order deletion command.
//
// When the order has a registered shipment its cancellation with the
// carrier is attempted first, best-effort: a carrier failure is logged and
// the deletion continues, because the order must go away regardless.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := h.load(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if aggregate.HasShipment() {
		shipmentID := aggregate.Shipment().ShipmentID()
		if err := h.gateway.CancelShipment(ctx, shipmentID, deletionCancellationReason); err != nil {
			h.logger.Warn("carrier cancellation failed, deleting order anyway",
				"order", aggregate.Number(), "shipmentID", shipmentID, "error", err)
		}
	}

	for attempt := 1; ; attempt++ {
		err = h.deleteCascade(ctx, cmd.OrderID())
		if err == nil {
			return nil
		}
		if !errors.Is(err, errs.ErrConflict) || attempt == deleteMaxAttempts {
			return err
		}

		h.logger.Info("order deletion hit a storage conflict, retrying",
			"orderID", cmd.OrderID().String(), "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(h.retryDelay):
		}
	}
}

// load reads the order in a read-only transaction.
func (h *DeleteOrderCommandHandler) load(ctx context.Context, orderID kernel.UUID) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().Get(ctx, orderID)
}

// deleteCascade removes the order's dependents and the order itself in one
// transaction: reviews, discount links, items, the order row and finally
// the details record when this order was its sole referent.
func (h *DeleteOrderCommandHandler) deleteCascade(ctx context.Context, orderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	if err := uow.ReviewRepository().DeleteForOrder(ctx, orderID); err != nil {
		return err
	}

	if err := orderRepo.DeleteDiscountLinks(ctx, orderID); err != nil {
		return err
	}

	if err := orderRepo.DeleteItems(ctx, orderID); err != nil {
		return err
	}

	aggregate, err := orderRepo.Get(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		// The order row is already gone; commit whatever dependents the
		// previous attempt left behind.
		return uow.Commit(ctx)
	}
	if err != nil {
		return err
	}

	referents, err := orderRepo.CountByDetailsID(ctx, aggregate.DetailsID())
	if err != nil {
		return err
	}

	if err = orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	if referents == 1 {
		if err = uow.DetailsRepository().Delete(ctx, aggregate.DetailsID()); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CancelShipmentCommandHandler cancels an order's shipment with the carrier
// and clears the courier name, AWB and shipment id from the order.
//
// An order without a shipment is a successful no-op. A carrier failure
// propagates and the order is left untouched, so the operation can be
// retried once the carrier recovers.
type CancelShipmentCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.ShipmentGateway
	logger     *slog.Logger
}

// NewCancelShipmentCommandHandler creates a handler for shipment cancellation.
func NewCancelShipmentCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.ShipmentGateway,
	logger *slog.Logger,
) CancelShipmentCommandHandler {
	return CancelShipmentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger,
	}
}

// Handle processes the shipment cancellation command.
// After the carrier confirms, the shipment fields are cleared and the order
// moves to Cancelled in one atomic update.
func (h *CancelShipmentCommandHandler) Handle(ctx context.Context, cmd CancelShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := h.load(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !aggregate.HasShipment() {
		return nil
	}

	if err = h.gateway.CancelShipment(ctx, aggregate.Shipment().ShipmentID(), cmd.Reason()); err != nil {
		return err
	}

	return h.clear(ctx, cmd.OrderID())
}

// load reads the order in a read-only transaction.
func (h *CancelShipmentCommandHandler) load(ctx context.Context, orderID kernel.UUID) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().Get(ctx, orderID)
}

// clear re-reads the order, drops its shipment fields and moves it to
// Cancelled. An order already past the point of cancellation keeps its
// status; the cleared shipment is persisted either way.
func (h *CancelShipmentCommandHandler) clear(ctx context.Context, orderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	aggregate.ClearShipment()

	if aggregate.Status() != order.Cancelled {
		if err = aggregate.ChangeStatus(order.Cancelled); err != nil {
			h.logger.Warn("order could not move to cancelled after shipment cancellation",
				"order", aggregate.Number(), "status", aggregate.Status().String(), "error", err)
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

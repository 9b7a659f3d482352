package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// statusCancellationReason is the reason sent to the carrier when a status
// change cancels an order that already has a registered shipment.
const statusCancellationReason = "order cancelled"

// UpdateOrderStatusCommandHandler handles order lifecycle transitions.
//
// Moving an order to Cancelled while it has a registered shipment also
// cancels that shipment with the carrier. The carrier call runs between two
// short transactions, never inside one, so a slow carrier cannot hold locks
// on the order row. The call is made exactly once and its failure does not
// block the transition: the shipment fields are cleared and the new status
// persisted regardless, with the carrier error logged for manual follow-up.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.ShipmentGateway
	logger     *slog.Logger
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.ShipmentGateway,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger,
	}
}

// Handle processes the status update command.
// Validates the transition against the lifecycle rules and persists the
// result. Completion marks the payment captured; cancellation of a
// shipped-for order notifies the carrier first, then clears its shipment.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.Status() == order.Cancelled {
		aggregate, err := h.load(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		if aggregate.HasShipment() {
			shipmentID := aggregate.Shipment().ShipmentID()
			if err := h.gateway.CancelShipment(ctx, shipmentID, statusCancellationReason); err != nil {
				h.logger.Warn("carrier cancellation failed, clearing shipment anyway",
					"order", aggregate.Number(), "shipmentID", shipmentID, "error", err)
			}
		}
	}

	return h.apply(ctx, cmd)
}

// load reads the order in a read-only transaction.
func (h *UpdateOrderStatusCommandHandler) load(ctx context.Context, orderID kernel.UUID) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().Get(ctx, orderID)
}

// apply re-reads the order and persists the transition in one transaction.
// Cancellation drops the shipment fields along with the status change.
func (h *UpdateOrderStatusCommandHandler) apply(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if cmd.Status() == order.Cancelled && aggregate.HasShipment() {
		aggregate.ClearShipment()
	}

	if err = aggregate.ChangeStatus(cmd.Status()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

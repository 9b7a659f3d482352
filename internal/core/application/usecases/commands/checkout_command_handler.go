package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// checkoutMaxAttempts bounds the retries when two checkouts race for the
// same order number. The unique index on the number rejects the loser as a
// conflict; a fresh attempt re-reads the last issued number.
const checkoutMaxAttempts = 3

// CheckoutCommandHandler handles the business logic for placing an order.
// Issues the next sequential order number and persists the details record,
// the order and its item snapshots in one transaction.
//
// Example:
//
//	handler := NewCheckoutCommandHandler(uowFactory, 5.0)
//	cmd, _ := NewCheckoutCommand(kernel.NewUUID(), cartSnapshot, recipient, order.PaymentTypeCard)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
type CheckoutCommandHandler struct {
	uowFactory  CheckoutUoWFactory
	shippingFee float64
}

// NewCheckoutCommandHandler creates a handler for checkout operations.
// Requires a CheckoutUoWFactory for transactional persistence and the flat
// shipping fee applied to every order.
func NewCheckoutCommandHandler(uowFactory CheckoutUoWFactory, shippingFee float64) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		uowFactory:  uowFactory,
		shippingFee: shippingFee,
	}
}

// Handle processes the checkout command.
//
// The order number is derived from the last issued number inside the same
// transaction that inserts the order, so the numbering has no gaps. When a
// concurrent checkout wins the race for the number, the insert fails with a
// conflict and the whole attempt is retried with a re-read number, up to
// checkoutMaxAttempts times. Any other error aborts immediately.
func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var err error
	for attempt := 0; attempt < checkoutMaxAttempts; attempt++ {
		err = h.placeOrder(ctx, cmd)
		if err == nil || !errors.Is(err, errs.ErrConflict) {
			return err
		}
	}

	return err
}

func (h *CheckoutCommandHandler) placeOrder(ctx context.Context, cmd CheckoutCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	lastNumber, err := orderRepo.LastNumber(ctx)
	if err != nil {
		return err
	}

	number, err := order.NextNumber(lastNumber)
	if err != nil {
		return err
	}

	lines := cmd.Cart().Items()
	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		item, err := order.NewItem(line.ProductID(), line.Size(), line.Quantity(), line.Price(), line.Weight())
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	if err = uow.DetailsRepository().Add(ctx, cmd.Recipient()); err != nil {
		return err
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		number,
		cmd.Recipient().ID(),
		items,
		cmd.Cart().Discounts(),
		h.shippingFee,
		cmd.PaymentType(),
	)
	if err != nil {
		return err
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

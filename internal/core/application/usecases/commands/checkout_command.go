package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/cart"
	"fulfillment/internal/core/domain/model/details"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCheckoutCommandIsNotConstructed = errors.New(
		"CheckoutCommand must be created via NewCheckoutCommand constructor",
	)
	ErrCartIsEmpty   = errors.New("cart must contain at least one line")
	ErrDetailsAreNil = errors.New("recipient details are required")
)

// CheckoutCommand represents a request to place an order from a cart
// snapshot. Encapsulates the cart lines and discounts, the recipient details
// record and the chosen payment type.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCheckoutCommand(orderID, cartSnapshot, recipient, order.PaymentTypeCard)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout data: %w", err)
//	}
//
//	handler := NewCheckoutCommandHandler(uowFactory, shippingFee)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	cart        cart.Cart
	recipient   *details.Details
	paymentType order.PaymentType

	guard guard.ConstructorGuard
}

// NewCheckoutCommand creates a command to place an order.
// Validates that the order ID is valid, the cart is not empty, the recipient
// details were properly constructed and the payment type is known.
func NewCheckoutCommand(
	orderID kernel.UUID,
	cartSnapshot cart.Cart,
	recipient *details.Details,
	paymentType order.PaymentType,
) (CheckoutCommand, error) {
	checkoutCommand := CheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		checkoutCommand.setOrderID(orderID),
		checkoutCommand.setCart(cartSnapshot),
		checkoutCommand.setRecipient(recipient),
		checkoutCommand.setPaymentType(paymentType),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return checkoutCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCheckoutCommandIsNotConstructed if validation fails.
func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CheckoutCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Cart returns the cart snapshot being checked out.
func (c CheckoutCommand) Cart() cart.Cart {
	return c.cart
}

// Recipient returns the recipient details record to persist with the order.
func (c CheckoutCommand) Recipient() *details.Details {
	return c.recipient
}

// PaymentType returns the chosen payment type.
func (c CheckoutCommand) PaymentType() order.PaymentType {
	return c.paymentType
}

func (c *CheckoutCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CheckoutCommand) setCart(cartSnapshot cart.Cart) error {
	if cartSnapshot.IsEmpty() {
		return ErrCartIsEmpty
	}

	c.cart = cartSnapshot
	return nil
}

func (c *CheckoutCommand) setRecipient(recipient *details.Details) error {
	if recipient == nil {
		return ErrDetailsAreNil
	}
	if err := recipient.Validate(); err != nil {
		return err
	}

	c.recipient = recipient
	return nil
}

func (c *CheckoutCommand) setPaymentType(paymentType order.PaymentType) error {
	if err := paymentType.Validate(); err != nil {
		return err
	}

	c.paymentType = paymentType
	return nil
}

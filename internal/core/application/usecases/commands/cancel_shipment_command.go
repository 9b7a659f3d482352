package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelShipmentCommandIsNotConstructed = errors.New(
	"CancelShipmentCommand must be created via NewCancelShipmentCommand constructor",
)

// defaultCancellationReason is sent to the carrier when no reason is given.
const defaultCancellationReason = "order cancelled"

// CancelShipmentCommand represents a request to cancel an order's registered
// shipment with the carrier.
type CancelShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelShipmentCommand creates a command to cancel a shipment.
// An empty reason falls back to a generic one.
func NewCancelShipmentCommand(orderID kernel.UUID, reason string) (CancelShipmentCommand, error) {
	cancelCommand := CancelShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cancelCommand.setOrderID(orderID); err != nil {
		return CancelShipmentCommand{}, err
	}

	cancelCommand.setReason(reason)
	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelShipmentCommandIsNotConstructed)
}

// OrderID returns the identifier of the order whose shipment to cancel.
func (c CancelShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the human-readable cancellation reason for the carrier.
func (c CancelShipmentCommand) Reason() string {
	return c.reason
}

func (c *CancelShipmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelShipmentCommand) setReason(reason string) {
	if reason == "" {
		reason = defaultCancellationReason
	}

	c.reason = reason
}

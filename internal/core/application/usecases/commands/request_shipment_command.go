package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRequestShipmentCommandIsNotConstructed = errors.New(
	"RequestShipmentCommand must be created via NewRequestShipmentCommand constructor",
)

// RequestShipmentCommand represents a request to register a shipment with
// the carrier for an existing order.
type RequestShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRequestShipmentCommand creates a command to register a shipment.
func NewRequestShipmentCommand(orderID kernel.UUID) (RequestShipmentCommand, error) {
	shipmentCommand := RequestShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := shipmentCommand.setOrderID(orderID); err != nil {
		return RequestShipmentCommand{}, err
	}

	return shipmentCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestShipmentCommand) Validate() error {
	return c.guard.Validate(ErrRequestShipmentCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to ship.
func (c RequestShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *RequestShipmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

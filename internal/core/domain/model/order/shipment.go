package order

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrShipmentIsNotConstructed is returned when a Shipment was not created via NewShipment.
var ErrShipmentIsNotConstructed = errs.NewValueIsRequiredError(
	"shipment must be created via NewShipment constructor")

// Shipment is the carrier-side identity of an order's physical shipment.
// Its three components are either all present or all absent on an order;
// the value object makes a partially-set triple unrepresentable.
type Shipment struct { //nolint:recvcheck //using for validation
	courier    string
	awb        string
	shipmentID string

	guard guard.ConstructorGuard
}

// NewShipment creates the carrier shipment identity for an order.
//
// Parameters:
//   - courier: the carrier's name
//   - awb: the carrier-issued waybill/tracking number
//   - shipmentID: the carrier's shipment identifier used for cancellation
func NewShipment(courier, awb, shipmentID string) (Shipment, error) {
	shipment := Shipment{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		shipment.setCourier(courier),
		shipment.setAWB(awb),
		shipment.setShipmentID(shipmentID),
	); err != nil {
		return Shipment{}, err
	}

	return shipment, nil
}

// Validate ensures the shipment was created through the constructor.
func (s Shipment) Validate() error {
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

// Courier returns the carrier's name.
func (s Shipment) Courier() string {
	return s.courier
}

// AWB returns the carrier-issued waybill/tracking number.
func (s Shipment) AWB() string {
	return s.awb
}

// ShipmentID returns the carrier's shipment identifier.
func (s Shipment) ShipmentID() string {
	return s.shipmentID
}

func (s *Shipment) setCourier(courier string) error {
	if courier == "" {
		return errs.NewValueIsRequiredError("courier")
	}
	s.courier = courier
	return nil
}

func (s *Shipment) setAWB(awb string) error {
	if awb == "" {
		return errs.NewValueIsRequiredError("awb")
	}
	s.awb = awb
	return nil
}

func (s *Shipment) setShipmentID(shipmentID string) error {
	if shipmentID == "" {
		return errs.NewValueIsRequiredError("shipment id")
	}
	s.shipmentID = shipmentID
	return nil
}

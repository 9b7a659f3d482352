package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/discount"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Order is the aggregate root for a placed order. It owns the order's
// sequential number, the purchased item snapshots, the computed total and
// the payment and shipment lifecycle.
//
// Invariants:
//   - total equals the item subtotal plus shipping minus discount effects,
//     never negative
//   - the carrier triple (courier, awb, shipment id) is all-set or all-absent
//   - status transitions follow the Status state machine
//   - completing an order captures its payment
type Order struct {
	id            kernel.UUID
	number        string
	detailsID     kernel.UUID
	items         []Item
	discounts     []discount.Application
	shippingFee   float64
	total         float64
	paymentType   PaymentType
	paymentStatus PaymentStatus
	status        Status
	shipment      *Shipment
	createdAt     time.Time

	isConstructed bool
}

// NewOrder creates an order from a checkout snapshot.
//
// The total is computed here from the item snapshots, the flat shipping fee
// and the applied discounts, clamped at zero. Payment starts captured for
// immediate-capture payment types, pending otherwise. The order starts in
// Processing status.
func NewOrder(
	id kernel.UUID,
	number string,
	detailsID kernel.UUID,
	items []Item,
	discounts []discount.Application,
	shippingFee float64,
	paymentType PaymentType,
) (*Order, error) {
	order := &Order{
		status:        Processing,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setNumber(number),
		order.setDetailsID(detailsID),
		order.setItems(items),
		order.setDiscounts(discounts),
		order.setShippingFee(shippingFee),
		order.setPaymentType(paymentType),
	); err != nil {
		return nil, err
	}

	order.total = order.computeTotal()
	order.paymentStatus = PaymentPending
	if paymentType.IsImmediateCapture() {
		order.paymentStatus = PaymentCompleted
	}

	return order, nil
}

// RestoreOrder reconstructs an order from persistence, bypassing the
// checkout-time defaults but not the field validation. The stored total is
// kept as-is; it was computed when the order was placed.
func RestoreOrder(
	id kernel.UUID,
	number string,
	detailsID kernel.UUID,
	items []Item,
	discounts []discount.Application,
	shippingFee float64,
	total float64,
	paymentType PaymentType,
	paymentStatus PaymentStatus,
	status Status,
	shipment *Shipment,
	createdAt time.Time,
) (*Order, error) {
	order := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setNumber(number),
		order.setDetailsID(detailsID),
		order.setItems(items),
		order.setDiscounts(discounts),
		order.setShippingFee(shippingFee),
		order.setPaymentType(paymentType),
		paymentStatus.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if shipment != nil {
		if err := shipment.Validate(); err != nil {
			return nil, err
		}
	}

	if total < 0 {
		return nil, errs.NewValueIsInvalidError("order total")
	}

	order.total = total
	order.paymentStatus = paymentStatus
	order.status = status
	order.shipment = shipment
	order.createdAt = createdAt
	return order, nil
}

// Validate ensures the Order instance was properly constructed through a factory method.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-facing sequential order number.
func (o *Order) Number() string {
	return o.number
}

// DetailsID returns the identifier of the recipient/billing details record.
// The details record may be shared with other orders.
func (o *Order) DetailsID() kernel.UUID {
	return o.detailsID
}

// Items returns the purchased item snapshots.
func (o *Order) Items() []Item {
	return o.items
}

// Discounts returns the discount applications linked to the order.
func (o *Order) Discounts() []discount.Application {
	return o.discounts
}

// ShippingFee returns the flat shipping fee charged at checkout.
func (o *Order) ShippingFee() float64 {
	return o.shippingFee
}

// Total returns the order total computed at checkout.
func (o *Order) Total() float64 {
	return o.total
}

// PaymentType returns the payment method chosen at checkout.
func (o *Order) PaymentType() PaymentType {
	return o.paymentType
}

// PaymentStatus returns the current payment capture state.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Shipment returns the carrier shipment identity, or nil when no shipment
// was requested.
func (o *Order) Shipment() *Shipment {
	return o.shipment
}

// HasShipment reports whether a carrier shipment is attached to the order.
func (o *Order) HasShipment() bool {
	return o.shipment != nil
}

// CreatedAt returns the checkout time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// PackageWeight returns the total shipping weight of the order's items,
// substituting the default unit weight for items without one recorded.
func (o *Order) PackageWeight() float64 {
	var weight float64
	for _, item := range o.items {
		weight += item.PackageWeight()
	}
	return weight
}

// ChangeStatus transitions the order to the new status.
//
// Completing an order also captures its payment. Transitions are validated
// by the Status state machine; an invalid transition leaves the order
// unchanged and returns an error.
func (o *Order) ChangeStatus(next Status) error {
	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	if newStatus == Completed {
		o.paymentStatus = PaymentCompleted
	}
	return nil
}

// AssignShipment attaches the carrier shipment identity to the order.
// The triple is set atomically; an order already carrying a shipment
// rejects a second assignment.
func (o *Order) AssignShipment(shipment Shipment) error {
	if err := shipment.Validate(); err != nil {
		return err
	}
	if o.shipment != nil {
		return errs.NewValueIsInvalidError("order already has a shipment")
	}

	o.shipment = &shipment
	return nil
}

// ClearShipment removes the carrier shipment identity, resetting courier,
// awb and shipment id together.
func (o *Order) ClearShipment() {
	o.shipment = nil
}

// MarkPaymentCompleted records the payment as captured.
func (o *Order) MarkPaymentCompleted() {
	o.paymentStatus = PaymentCompleted
}

// Subtotal returns the sum of the item subtotals.
func (o *Order) Subtotal() float64 {
	var subtotal float64
	for _, item := range o.items {
		subtotal += item.Subtotal()
	}
	return subtotal
}

func (o *Order) computeTotal() float64 {
	return discount.GrandTotal(o.Subtotal(), o.shippingFee, o.discounts)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if err := ValidateNumber(number); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setDetailsID(detailsID kernel.UUID) error {
	if err := detailsID.Validate(); err != nil {
		return err
	}
	o.detailsID = detailsID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}

func (o *Order) setDiscounts(discounts []discount.Application) error {
	for _, app := range discounts {
		if err := app.Validate(); err != nil {
			return err
		}
	}
	o.discounts = discounts
	return nil
}

func (o *Order) setShippingFee(fee float64) error {
	if fee < 0 {
		return errs.NewValueIsInvalidError("shipping fee")
	}
	o.shippingFee = fee
	return nil
}

func (o *Order) setPaymentType(paymentType PaymentType) error {
	if err := paymentType.Validate(); err != nil {
		return err
	}
	o.paymentType = paymentType
	return nil
}

package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// DefaultItemWeight is assumed, in kilograms, for items without a recorded
// weight when computing shipment package weight.
const DefaultItemWeight = 1.0

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"order item must be created via NewItem constructor")

// Item is an immutable line of a placed order: a snapshot of the purchased
// variant's unit price at purchase time.
type Item struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	size      string
	quantity  int
	price     float64
	weight    *float64

	guard guard.ConstructorGuard
}

// NewItem creates an order item snapshot.
//
// Parameters:
//   - productID: the purchased product's identifier
//   - size: the purchased size variant
//   - quantity: number of units (must be positive)
//   - price: unit price at purchase time (must not be negative)
//   - weight: unit weight in kilograms, nil when the product has none recorded
func NewItem(productID kernel.UUID, size string, quantity int, price float64, weight *float64) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setSize(size),
		item.setQuantity(quantity),
		item.setPrice(price),
		item.setWeight(weight),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the item was created through the constructor.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ProductID returns the purchased product's identifier.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Size returns the purchased size variant.
func (i Item) Size() string {
	return i.size
}

// Quantity returns the number of purchased units.
func (i Item) Quantity() int {
	return i.quantity
}

// Price returns the unit price snapshot taken at purchase time.
func (i Item) Price() float64 {
	return i.price
}

// Weight returns the recorded unit weight, or nil when the product has none.
func (i Item) Weight() *float64 {
	return i.weight
}

// Subtotal returns price multiplied by quantity.
func (i Item) Subtotal() float64 {
	return i.price * float64(i.quantity)
}

// PackageWeight returns the line's shipping weight, substituting
// DefaultItemWeight per unit when no weight is recorded.
func (i Item) PackageWeight() float64 {
	unit := DefaultItemWeight
	if i.weight != nil {
		unit = *i.weight
	}
	return unit * float64(i.quantity)
}

func (i *Item) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *Item) setSize(size string) error {
	if size == "" {
		return errs.NewValueIsRequiredError("item size")
	}
	i.size = size
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"item quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setPrice(price float64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"item price", fmt.Errorf("%v is negative", price))
	}
	i.price = price
	return nil
}

func (i *Item) setWeight(weight *float64) error {
	if weight != nil && *weight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"item weight", fmt.Errorf("%v is not greater than 0", *weight))
	}
	i.weight = weight
	return nil
}

// Package discount provides the discount application value object shared by
// the cart and order aggregates. A discount application is a code-derived
// modifier contributing to the checkout total computation.
package discount

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Type classifies how a discount application contributes to the total.
type Type string

const (
	// Percentage contributes subtotal * value / 100.
	Percentage Type = "percentage"

	// Fixed contributes its value as an absolute amount.
	Fixed Type = "fixed"

	// FreeShipping contributes the flat shipping fee.
	FreeShipping Type = "free_shipping"
)

// Validate checks that the type is one of the defined discount kinds.
func (t Type) Validate() error {
	switch t {
	case Percentage, Fixed, FreeShipping:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"discount type",
			fmt.Errorf("%q is not a valid discount type", string(t)),
		)
	}
}

// Application is an immutable value object describing one applied discount
// code. Applications are collected in order during cart reduction; their
// monetary effect is computed only at checkout time.
type Application struct { //nolint:recvcheck //using for validation
	code          string
	discountType  Type
	value         float64
	constructorFn guard.ConstructorGuard
}

// ErrApplicationIsNotConstructed is returned when an Application was not
// created via NewApplication.
var ErrApplicationIsNotConstructed = errs.NewValueIsRequiredError(
	"discount application must be created via NewApplication constructor")

// NewApplication creates a discount application from a code, a type and a value.
// Value must not be negative; for percentage discounts it must not exceed 100.
func NewApplication(code string, discountType Type, value float64) (Application, error) {
	app := Application{
		constructorFn: guard.NewConstructorGuard(),
	}

	if code == "" {
		return Application{}, errs.NewValueIsRequiredError("discount code")
	}
	if err := discountType.Validate(); err != nil {
		return Application{}, err
	}
	if value < 0 {
		return Application{}, errs.NewValueIsInvalidErrorWithCause(
			"discount value", fmt.Errorf("%v is negative", value))
	}
	if discountType == Percentage && value > 100 {
		return Application{}, errs.NewValueIsOutOfRangeError("discount value", value, 0, 100)
	}

	app.code = code
	app.discountType = discountType
	app.value = value
	return app, nil
}

// Validate ensures the application was created through the constructor.
func (a Application) Validate() error {
	return a.constructorFn.Validate(ErrApplicationIsNotConstructed)
}

// Code returns the discount code this application was derived from.
func (a Application) Code() string {
	return a.code
}

// Type returns the discount kind.
func (a Application) Type() Type {
	return a.discountType
}

// Value returns the discount magnitude. Its meaning depends on Type.
func (a Application) Value() float64 {
	return a.value
}

// Contribution returns the amount this application subtracts from the total,
// given the cart subtotal and the flat shipping fee.
func (a Application) Contribution(subtotal, shipping float64) float64 {
	switch a.discountType {
	case Percentage:
		return subtotal * a.value / 100
	case Fixed:
		return a.value
	case FreeShipping:
		return shipping
	default:
		return 0
	}
}

// GrandTotal computes the checkout total for a subtotal, a flat shipping fee
// and the ordered list of discount applications. All contributions are summed
// first; the result is clamped so the total never goes negative.
func GrandTotal(subtotal, shipping float64, apps []Application) float64 {
	var deducted float64
	for _, app := range apps {
		deducted += app.Contribution(subtotal, shipping)
	}

	total := subtotal + shipping - deducted
	if total < 0 {
		return 0
	}
	return total
}

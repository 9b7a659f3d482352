// Package product provides the product and size variant value objects the
// cart engine prices and stock-checks against. A size variant is the per-size
// stock-keeping unit of a product, with its own price, old price and stock
// count.
package product

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrProductIsNotConstructed is returned when a Product was not created via NewProduct.
var ErrProductIsNotConstructed = errs.NewValueIsRequiredError(
	"product must be created via NewProduct constructor")

// Product carries the product attributes the cart engine needs: identity,
// display name and whether the product may be sold past its stock count.
type Product struct { //nolint:recvcheck //using for validation
	id             kernel.UUID
	name           string
	allowBackorder bool
	weight         *float64

	guard guard.ConstructorGuard
}

// NewProduct creates a product reference for cart operations. The unit
// weight in kilograms is optional; pass nil when the catalog does not
// record one.
func NewProduct(id kernel.UUID, name string, allowBackorder bool, weight *float64) (Product, error) {
	p := Product{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setWeight(weight),
	); err != nil {
		return Product{}, err
	}

	p.allowBackorder = allowBackorder
	return p, nil
}

// Validate ensures the product was created through the constructor.
func (p Product) Validate() error {
	return p.guard.Validate(ErrProductIsNotConstructed)
}

// ID returns the product identifier.
func (p Product) ID() kernel.UUID {
	return p.id
}

// Name returns the product display name.
func (p Product) Name() string {
	return p.name
}

// AllowsBackorder reports whether the product may be sold when its variant
// stock is exhausted, lifting the cart quantity ceiling.
func (p Product) AllowsBackorder() bool {
	return p.allowBackorder
}

// Weight returns the unit weight in kilograms, or nil when the catalog does
// not record one.
func (p Product) Weight() *float64 {
	return p.weight
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	p.name = name
	return nil
}

func (p *Product) setWeight(weight *float64) error {
	if weight != nil && *weight < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"product weight", fmt.Errorf("%v is negative", *weight))
	}
	p.weight = weight
	return nil
}

// ErrSizeVariantIsNotConstructed is returned when a SizeVariant was not
// created via NewSizeVariant.
var ErrSizeVariantIsNotConstructed = errs.NewValueIsRequiredError(
	"size variant must be created via NewSizeVariant constructor")

// SizeVariant is a per-size stock-keeping unit of a product.
type SizeVariant struct { //nolint:recvcheck //using for validation
	size              string
	price             float64
	oldPrice          float64
	stock             int
	lowStockThreshold int

	guard guard.ConstructorGuard
}

// NewSizeVariant creates a size variant.
//
// Parameters:
//   - size: the size label, e.g. "M"
//   - price: current unit price (must not be negative)
//   - oldPrice: the pre-discount price shown struck through, 0 when none
//   - stock: units on hand (must not be negative)
//   - lowStockThreshold: stock level at which the variant counts as low
func NewSizeVariant(size string, price, oldPrice float64, stock, lowStockThreshold int) (SizeVariant, error) {
	v := SizeVariant{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setSize(size),
		v.setPrices(price, oldPrice),
		v.setStock(stock, lowStockThreshold),
	); err != nil {
		return SizeVariant{}, err
	}

	return v, nil
}

// Validate ensures the variant was created through the constructor.
func (v SizeVariant) Validate() error {
	return v.guard.Validate(ErrSizeVariantIsNotConstructed)
}

// Size returns the size label.
func (v SizeVariant) Size() string {
	return v.size
}

// Price returns the current unit price.
func (v SizeVariant) Price() float64 {
	return v.price
}

// OldPrice returns the pre-discount price, 0 when there is none.
func (v SizeVariant) OldPrice() float64 {
	return v.oldPrice
}

// Stock returns the number of units on hand.
func (v SizeVariant) Stock() int {
	return v.stock
}

// LowStockThreshold returns the stock level at which the variant counts as low.
func (v SizeVariant) LowStockThreshold() int {
	return v.lowStockThreshold
}

// IsLowOnStock reports whether the stock has reached the low-stock threshold.
func (v SizeVariant) IsLowOnStock() bool {
	return v.stock <= v.lowStockThreshold
}

func (v *SizeVariant) setSize(size string) error {
	if size == "" {
		return errs.NewValueIsRequiredError("variant size")
	}
	v.size = size
	return nil
}

func (v *SizeVariant) setPrices(price, oldPrice float64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"variant price", fmt.Errorf("%v is negative", price))
	}
	if oldPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"variant old price", fmt.Errorf("%v is negative", oldPrice))
	}
	v.price = price
	v.oldPrice = oldPrice
	return nil
}

func (v *SizeVariant) setStock(stock, lowStockThreshold int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"variant stock", fmt.Errorf("%d is negative", stock))
	}
	if lowStockThreshold < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"variant low stock threshold", fmt.Errorf("%d is negative", lowStockThreshold))
	}
	v.stock = stock
	v.lowStockThreshold = lowStockThreshold
	return nil
}

// Package cart implements the stock-aware cart state machine feeding
// checkout. The cart is a value object reduced one action at a time; every
// action returns the next state and leaves the receiver untouched, so a
// session can keep any snapshot it likes.
//
// The quantity ceiling is the variant's stock unless the product allows
// backorders. An action that would push a line past its ceiling is a silent
// no-op: the state is returned unchanged and no error is raised, because the
// UI pre-validates against the same ceiling before dispatching the action.
package cart

import (
	"fulfillment/internal/core/domain/model/discount"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// Line is one cart position: a product's size variant with a quantity and a
// price snapshot taken when the line was added.
type Line struct {
	productID kernel.UUID
	size      string
	quantity  int
	price     float64
	weight    *float64
}

// NewLine builds a cart line, used when loading a stored cart snapshot.
// The weight is the unit weight snapshot, nil when the catalog records none.
func NewLine(productID kernel.UUID, size string, quantity int, price float64, weight *float64) (Line, error) {
	if err := productID.Validate(); err != nil {
		return Line{}, err
	}
	return Line{productID: productID, size: size, quantity: quantity, price: price, weight: weight}, nil
}

// ProductID returns the referenced product's identifier.
func (l Line) ProductID() kernel.UUID {
	return l.productID
}

// Size returns the size variant of the line.
func (l Line) Size() string {
	return l.size
}

// Quantity returns the number of units in the line.
func (l Line) Quantity() int {
	return l.quantity
}

// Price returns the unit price snapshot.
func (l Line) Price() float64 {
	return l.price
}

// Weight returns the unit weight snapshot, nil when the catalog records none.
func (l Line) Weight() *float64 {
	return l.weight
}

// Subtotal returns price multiplied by quantity.
func (l Line) Subtotal() float64 {
	return l.price * float64(l.quantity)
}

// Cart is the cart state: ordered lines, a running total and the ordered
// list of applied discounts. The zero value is the empty cart.
//
// The total is maintained incrementally by each action; discounts do not
// touch it during reduction. Their effect is computed only at checkout via
// GrandTotal.
type Cart struct {
	items     []Line
	total     float64
	discounts []discount.Application
}

// Empty returns the empty cart state.
func Empty() Cart {
	return Cart{}
}

// Load replaces the cart state wholesale with a stored snapshot,
// recomputing the running total from the lines.
func Load(items []Line, discounts []discount.Application) Cart {
	var total float64
	for _, line := range items {
		total += line.Subtotal()
	}
	return Cart{
		items:     append([]Line(nil), items...),
		total:     total,
		discounts: append([]discount.Application(nil), discounts...),
	}
}

// Items returns the cart lines in insertion order.
func (c Cart) Items() []Line {
	return c.items
}

// Total returns the running sum of the line subtotals.
func (c Cart) Total() float64 {
	return c.total
}

// Discounts returns the applied discounts in application order.
func (c Cart) Discounts() []discount.Application {
	return c.discounts
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// AddItem merges qty units of the variant into the cart.
//
// The prospective quantity is the current matching-line quantity plus qty.
// If it exceeds the quantity ceiling the action is a silent no-op. Otherwise
// the matching line grows, or a new line is appended, and the total grows by
// the variant price times qty.
func (c Cart) AddItem(p product.Product, variant product.SizeVariant, qty int) Cart {
	if qty <= 0 {
		return c
	}

	current := 0
	if idx := c.findLine(p.ID(), variant.Size()); idx >= 0 {
		current = c.items[idx].quantity
	}

	if exceedsCeiling(p, variant, current+qty) {
		return c
	}

	next := c.clone()
	if idx := next.findLine(p.ID(), variant.Size()); idx >= 0 {
		next.items[idx].quantity += qty
	} else {
		next.items = append(next.items, Line{
			productID: p.ID(),
			size:      variant.Size(),
			quantity:  qty,
			price:     variant.Price(),
			weight:    p.Weight(),
		})
	}
	next.total += variant.Price() * float64(qty)
	return next
}

// RemoveItem removes the matching line and shrinks the total by the line's
// subtotal. A missing line is a no-op.
func (c Cart) RemoveItem(productID kernel.UUID, size string) Cart {
	idx := c.findLine(productID, size)
	if idx < 0 {
		return c
	}

	next := c.clone()
	next.total -= next.items[idx].Subtotal()
	next.items = append(next.items[:idx], next.items[idx+1:]...)
	return next
}

// UpdateQuantity sets the matching line's quantity to qty, adjusting the
// total by the delta. The same ceiling check as AddItem applies; exceeding
// it, a non-positive qty, or a missing line is a silent no-op.
func (c Cart) UpdateQuantity(p product.Product, variant product.SizeVariant, qty int) Cart {
	if qty <= 0 {
		return c
	}

	idx := c.findLine(p.ID(), variant.Size())
	if idx < 0 {
		return c
	}

	if exceedsCeiling(p, variant, qty) {
		return c
	}

	next := c.clone()
	delta := qty - next.items[idx].quantity
	next.items[idx].quantity = qty
	next.total += next.items[idx].price * float64(delta)
	return next
}

// ApplyDiscount appends a discount application. The running total is not
// touched; the discount's effect is computed at checkout time.
func (c Cart) ApplyDiscount(app discount.Application) Cart {
	if app.Validate() != nil {
		return c
	}
	if c.findDiscount(app.Code()) >= 0 {
		return c
	}

	next := c.clone()
	next.discounts = append(next.discounts, app)
	return next
}

// RemoveDiscount removes the application with the given code, if present.
func (c Cart) RemoveDiscount(code string) Cart {
	idx := c.findDiscount(code)
	if idx < 0 {
		return c
	}

	next := c.clone()
	next.discounts = append(next.discounts[:idx], next.discounts[idx+1:]...)
	return next
}

// Clear resets the cart to the empty state.
func (c Cart) Clear() Cart {
	return Cart{}
}

// GrandTotal computes the checkout total for the cart given the flat
// shipping fee: subtotal plus shipping minus the summed discount
// contributions, clamped at zero.
func (c Cart) GrandTotal(shipping float64) float64 {
	return discount.GrandTotal(c.total, shipping, c.discounts)
}

func (c Cart) findLine(productID kernel.UUID, size string) int {
	for i, line := range c.items {
		if line.productID.IsEqual(productID) && line.size == size {
			return i
		}
	}
	return -1
}

func (c Cart) findDiscount(code string) int {
	for i, app := range c.discounts {
		if app.Code() == code {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	return Cart{
		items:     append([]Line(nil), c.items...),
		total:     c.total,
		discounts: append([]discount.Application(nil), c.discounts...),
	}
}

// exceedsCeiling reports whether prospective units of the variant would
// break the quantity ceiling. Products allowing backorders have none.
func exceedsCeiling(p product.Product, variant product.SizeVariant, prospective int) bool {
	if p.AllowsBackorder() {
		return false
	}
	return prospective > variant.Stock()
}

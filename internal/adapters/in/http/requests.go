package http

import "time"

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CheckoutItem is one cart line in a checkout request. Weight is the unit
// weight in kilograms, omitted when the catalog records none.
type CheckoutItem struct {
	ProductID string   `json:"product_id"`
	Size      string   `json:"size"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Weight    *float64 `json:"weight,omitempty"`
}

// CheckoutDiscount is one applied discount code in a checkout request.
type CheckoutDiscount struct {
	Code  string  `json:"code"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// CheckoutDetails carries the recipient contact and address data.
type CheckoutDetails struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	City       string `json:"city"`
	Street     string `json:"street"`
	StreetNo   string `json:"street_no"`
	Postcode   string `json:"postcode"`
	OrderNotes string `json:"order_notes,omitempty"`
}

// CheckoutRequest is the payload for placing an order.
type CheckoutRequest struct {
	PaymentType string             `json:"payment_type"`
	Items       []CheckoutItem     `json:"items"`
	Discounts   []CheckoutDiscount `json:"discounts,omitempty"`
	Details     CheckoutDetails    `json:"details"`
}

// CheckoutResponse returns the identifier of the placed order.
type CheckoutResponse struct {
	ID string `json:"id"`
}

// UpdateStatusRequest is the payload for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CancelShipmentRequest optionally carries a cancellation reason.
type CancelShipmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// OrderSummary is one row of the order listing.
type OrderSummary struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	CustomerName  string    `json:"customer_name"`
	Status        string    `json:"status"`
	PaymentType   string    `json:"payment_type"`
	PaymentStatus string    `json:"payment_status"`
	Total         float64   `json:"total"`
	Courier       string    `json:"courier,omitempty"`
	AWB           string    `json:"awb,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

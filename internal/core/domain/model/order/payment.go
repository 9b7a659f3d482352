package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentStatus tracks whether the order's payment was captured.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined payment status.
	PaymentUnknown PaymentStatus = iota

	// PaymentPending means the payment is still to be captured, e.g. cash on delivery.
	PaymentPending

	// PaymentCompleted means the payment was captured.
	PaymentCompleted
)

// String returns the display string of the payment status.
func (p PaymentStatus) String() string {
	switch p {
	case PaymentPending:
		return "Pending"
	case PaymentCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Validate checks if the PaymentStatus value is valid.
func (p PaymentStatus) Validate() error {
	if p != PaymentPending && p != PaymentCompleted {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid",
			fmt.Errorf("%d is not a valid payment status", p),
		)
	}
	return nil
}

// PaymentType is the method the buyer chose at checkout.
type PaymentType string

const (
	// PaymentTypeCard captures the payment immediately at checkout.
	PaymentTypeCard PaymentType = "card"

	// PaymentTypeCashOnDelivery defers capture until delivery.
	PaymentTypeCashOnDelivery PaymentType = "cash_on_delivery"
)

// Validate checks that the payment type is one of the supported methods.
func (t PaymentType) Validate() error {
	switch t {
	case PaymentTypeCard, PaymentTypeCashOnDelivery:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"payment type",
			fmt.Errorf("%q is not a supported payment type", string(t)),
		)
	}
}

// IsImmediateCapture reports whether this payment method captures funds at
// checkout time, which makes a new order start with PaymentCompleted.
func (t PaymentType) IsImmediateCapture() bool {
	return t == PaymentTypeCard
}

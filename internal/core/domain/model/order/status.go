package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions:
//
//	PendingPayment ──> Processing ──> Shipped ──> Completed ──> Refunded
//	       │               │             │
//	       └───────────────┴─────────────┴──> Cancelled ──> Refunded
//
// At the storage boundary the status is persisted as its legacy display
// string, which the unmigrated admin surface still reads. ParseStatusText
// translates any inbound text, including the sentinel substrings that carry
// cancellation and completion meaning, back into this closed set.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingPayment is the initial status for orders awaiting payment capture.
	PendingPayment

	// Processing is the initial status of a paid order being prepared.
	Processing

	// Shipped indicates a shipment was handed to the carrier.
	Shipped

	// Completed indicates the order was delivered. Completing an order also
	// marks its payment as captured.
	Completed

	// Cancelled is terminal and reachable from any non-Completed state.
	Cancelled

	// Refunded marks a completed or cancelled order whose payment was returned.
	Refunded
)

// cancellationTokens are the case-insensitive substrings that mark inbound
// status text as a cancellation. The Cyrillic token is kept for the legacy
// admin surface.
var cancellationTokens = []string{"cancel", "отказ"}

// completionTokens are the case-insensitive substrings that mark inbound
// status text as a completion.
var completionTokens = []string{"complet", "deliver", "доставена"}

// getStatusStrings returns a map of Status values to their legacy display
// strings. All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		PendingPayment: "Pending Payment",
		Processing:     "Processing",
		Shipped:        "Shipped",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
		Refunded:       "Refunded",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		PendingPayment: "Pending Payment",
		Processing:     "Processing",
		Shipped:        "Shipped",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
		Refunded:       "Refunded",
	}
}

// statusTransitions defines the allowed moves between statuses.
func statusTransitions() map[Status][]Status {
	return map[Status][]Status{
		PendingPayment: {Processing, Cancelled},
		Processing:     {Shipped, Completed, Cancelled},
		Shipped:        {Completed, Cancelled},
		Completed:      {Refunded},
		Cancelled:      {Refunded},
		Refunded:       {},
	}
}

// Validate checks if the Status value is valid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the legacy display string of the status.
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// TransitionTo validates moving from the current status to next and returns
// next on success.
//
// Returns:
//   - (next, nil) on a valid transition
//   - (0, error) if the transition is not allowed from the current status
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return 0, err
	}

	for _, allowed := range statusTransitions()[s] {
		if allowed == next {
			return next, nil
		}
	}

	return 0, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("transition from %s to %s is not allowed", s.String(), next.String()),
	)
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(statusTransitions()[s]) == 0
}

// DenotesCancellation reports whether inbound status text carries a
// cancellation meaning: a case-insensitive substring match against the
// defined cancellation tokens.
func DenotesCancellation(text string) bool {
	return containsToken(text, cancellationTokens)
}

// DenotesCompletion reports whether inbound status text carries a
// completion meaning.
func DenotesCompletion(text string) bool {
	return containsToken(text, completionTokens)
}

func containsToken(text string, tokens []string) bool {
	lowered := strings.ToLower(text)
	for _, token := range tokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}

// ParseStatusText translates free status text from the admin surface into
// the closed status set. Sentinel token matching runs first, then an exact
// case-insensitive match against the legacy display strings and their
// common spelling variants.
//
// Returns:
//   - the matched Status on success
//   - (Unknown, error) when the text maps to no known status
func ParseStatusText(text string) (Status, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Unknown, errs.NewValueIsRequiredError("status text")
	}

	if DenotesCancellation(trimmed) {
		return Cancelled, nil
	}
	if DenotesCompletion(trimmed) {
		return Completed, nil
	}

	switch strings.ToLower(trimmed) {
	case "pending payment", "pending":
		return PendingPayment, nil
	case "processing", "in progress":
		return Processing, nil
	case "shipped", "sent", "in transit":
		return Shipped, nil
	case "refunded":
		return Refunded, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status text",
			fmt.Errorf("%q maps to no known order status", text),
		)
	}
}

package order

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"fulfillment/internal/pkg/errs"
)

const (
	// NumberBase is the fixed two-letter base every order number starts with.
	NumberBase = "SS"

	// FirstNumber is the number issued when no order exists yet.
	FirstNumber = "SSA0001"

	numberCounterMax = 9999
)

// ErrNumberSpaceExhausted is returned when the order number sequence has no
// further rollover defined (both prefix tail letters are at 'Z' and the
// counter is at its maximum).
var ErrNumberSpaceExhausted = errors.New("order number space is exhausted")

// numberPattern matches the order number format: the fixed base, an optional
// prefix tail of up to two uppercase letters and a four-digit counter.
var numberPattern = regexp.MustCompile(`^` + NumberBase + `([A-Z]{0,2})([0-9]{4})$`)

// NextNumber computes the order number following lastIssued.
//
// It is a pure function of the single most-recently-issued number; the caller
// must establish "most recent" via one consistent read. Rollover rules:
//
//	"" (no prior order)  -> SSA0001
//	counter < 9999       -> counter + 1, same prefix
//	SS9999               -> SSA0001
//	SSx9999, x < 'Z'     -> SS(x+1)0001
//	SSZ9999              -> SSAA0001
//	SSxy9999, y < 'Z'    -> SSx(y+1)0001
//	SSxZ9999             -> ErrNumberSpaceExhausted
func NextNumber(lastIssued string) (string, error) {
	if lastIssued == "" {
		return FirstNumber, nil
	}

	match := numberPattern.FindStringSubmatch(lastIssued)
	if match == nil {
		return "", errs.NewValueIsInvalidErrorWithCause(
			"order number",
			fmt.Errorf("%q does not match the %s[A-Z]{0,2}[0-9]{4} format", lastIssued, NumberBase),
		)
	}

	tail := match[1]
	counter, err := strconv.Atoi(match[2])
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("order number", err)
	}

	if counter < numberCounterMax {
		return fmt.Sprintf("%s%s%04d", NumberBase, tail, counter+1), nil
	}

	switch len(tail) {
	case 0:
		return FirstNumber, nil
	case 1:
		if tail[0] < 'Z' {
			return fmt.Sprintf("%s%c0001", NumberBase, tail[0]+1), nil
		}
		return NumberBase + "AA0001", nil
	default:
		if tail[1] < 'Z' {
			return fmt.Sprintf("%s%c%c0001", NumberBase, tail[0], tail[1]+1), nil
		}
		return "", ErrNumberSpaceExhausted
	}
}

// ValidateNumber checks that a string is a well-formed order number.
func ValidateNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	if !numberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause(
			"order number",
			fmt.Errorf("%q does not match the %s[A-Z]{0,2}[0-9]{4} format", number, NumberBase),
		)
	}
	return nil
}

// Package sqlerr translates driver-level postgres errors into the domain
// error vocabulary, so repositories and the unit of work share one
// classification and command handlers never import the driver.
package sqlerr

import (
	"errors"

	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// retryableSQLStates are the postgres error codes that indicate a transient
// concurrency failure: serialization failure, deadlock, lock-wait timeout
// and statement cancellation (which the bounded transaction settings produce
// on a stuck statement). Retrying the whole transaction is the correct
// reaction to each of them.
var retryableSQLStates = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
	"57014": {}, // query_canceled
}

// uniqueViolationState is raised when two transactions insert the same
// unique key, e.g. two checkouts racing for one order number. The loser
// retries with a re-read number, so this is a conflict too.
const uniqueViolationState = "23505"

// Classify wraps transient postgres failures into errs.ConflictError so
// callers can retry on errors.Is(err, errs.ErrConflict) without knowing the
// driver. Anything else passes through unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	code, ok := sqlState(err)
	if !ok {
		return err
	}

	if _, retryable := retryableSQLStates[code]; retryable {
		return errs.NewConflictError(op, err)
	}
	if code == uniqueViolationState {
		return errs.NewConflictError(op, err)
	}

	return err
}

// sqlState extracts the SQLSTATE from either postgres driver. GORM's
// postgres dialector speaks pgx and surfaces *pgconn.PgError; lib/pq is
// still recognised for connections pinned to it through DriverName.
func sqlState(err error) (string, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}

	return "", false
}

// Package repository holds the MySQL data access for halls, seat maps,
// shift schedules and owner settings.  The sentinel values below let
// higher layers tell failure scenarios apart; StatusFor turns any of them
// into the status-carrying error the save pipeline classifies.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"net/http"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hall-config-editor/internal/resilient"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write collides with existing state, such
// as a duplicate seat number inside one hall.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers the mapping cares about.
const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
	errLockWaitTimeout = 1205
	errLockDeadlock    = 1213
	errDataTooLong     = 1406
	errIncorrectValue  = 1366
	errDataTruncated   = 1265
)

// msgBadValue is shown when the server rejects a value the editor let
// through.
const msgBadValue = "One or more values are too long or malformed"

// StatusFor maps a repository error onto a *resilient.StatusError.
//
//	not found            -> 404
//	duplicate / FK       -> 409
//	value rejected       -> 400
//	lock timeout         -> 503 (retried)
//	other server errors  -> 500
//	connection failures  -> 0 (service unreachable)
//
// Context errors and nil pass through unchanged.  msg, when set, becomes
// the user-facing message of conflicts and not-found results.
func StatusFor(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var se *resilient.StatusError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrHallNotFound) || errors.Is(err, ErrSeatNotFound) {
		return &resilient.StatusError{Status: http.StatusNotFound, Message: msg, Err: err}
	}
	if errors.Is(err, ErrForbidden) {
		return &resilient.StatusError{Status: http.StatusForbidden, Err: err}
	}
	if errors.Is(err, ErrConflict) {
		return &resilient.StatusError{Status: http.StatusConflict, Message: msg, Err: err}
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDupEntry, errRowIsReferenced, errNoReferencedRow:
			return &resilient.StatusError{Status: http.StatusConflict, Message: msg, Err: err}
		case errDataTooLong, errIncorrectValue, errDataTruncated:
			return &resilient.StatusError{Status: http.StatusBadRequest, Message: msgBadValue, Err: err}
		case errLockWaitTimeout, errLockDeadlock:
			return &resilient.StatusError{Status: http.StatusServiceUnavailable, Err: err}
		}
		return &resilient.StatusError{Status: http.StatusInternalServerError, Err: err}
	}
	var ne net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) || errors.As(err, &ne) {
		return &resilient.StatusError{Status: 0, Err: err}
	}
	return &resilient.StatusError{Status: http.StatusInternalServerError, Err: err}
}

// isDuplicate reports whether err is a MySQL unique key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}

// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// auth service and the handlers to distinguish between different failure
// scenarios without inspecting driver errors themselves.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrAccountNotFound is returned when no users row matches a lookup.
var ErrAccountNotFound = errors.New("account not found")

// ErrEmailExists is returned when an insert violates the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrRoleNotConfigured is returned when the roles table has no row for a
// role the application needs. It signals a server misconfiguration, not a
// client error.
var ErrRoleNotConfigured = errors.New("role not configured")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as deleting a
// category that still has products. Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers inspected by the repositories.
const (
	mysqlDuplicateEntry     = 1062
	mysqlRowIsReferenced    = 1451
	mysqlNoReferencedParent = 1452
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicateKey(err error) bool { return mysqlErrNumber(err) == mysqlDuplicateEntry }

func isRowReferenced(err error) bool { return mysqlErrNumber(err) == mysqlRowIsReferenced }

func isMissingParent(err error) bool { return mysqlErrNumber(err) == mysqlNoReferencedParent }

package dbmigrate

import (
	"database/sql/driver"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// Discovery errors
var (
	ErrMigrationsDirNotFound = errors.New("migrations dir not found")
	ErrInvalidMigrationID    = errors.New("invalid migration id")
	ErrDuplicateMigrationID  = errors.New("duplicate migration id")
	ErrIncompleteMigration   = errors.New("incomplete migration")
)

// Ledger errors
var (
	ErrConnectionFailed  = errors.New("connection failed")
	ErrQueryFailed       = errors.New("query failed")
	ErrTransactionFailed = errors.New("transaction failed")
)

// Planner errors
var (
	ErrMissingMigrationFile = errors.New("missing migration file")
	ErrUnknownAction        = errors.New("unknown action")
	ErrPhasedAction         = errors.New("action has to be planned phase by phase")
)

// DiscoveryError is returned when the migrations dir holds migrations that can't be used.
// Kind is one of the discovery errors and can be checked with errors.Is.
type DiscoveryError struct {
	Kind error
	ID   MigrationID
	// Prefix is the id as written in the file name, if known
	Prefix string
	Path   string
	Reason string
}

func (e *DiscoveryError) Error() string {
	id := e.Prefix
	if id == "" {
		id = e.ID.String()
	}
	s := fmt.Sprintf("%s %s", e.Kind, id)
	if e.Path != "" {
		s += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Reason != "" {
		s += ": " + e.Reason
	}
	return s
}

// Is reports whether target is the kind of the error
func (e *DiscoveryError) Is(target error) bool {
	return target == e.Kind
}

// LedgerError is returned by the ledger when the database can't be reached or a statement fails
type LedgerError struct {
	// Kind is ErrConnectionFailed, ErrQueryFailed or ErrTransactionFailed
	Kind error
	// Op describes what the ledger was doing
	Op  string
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("can't %s: %s: %v", e.Op, e.Kind, e.Err)
}

// Is reports whether target is the kind of the error
func (e *LedgerError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying database error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

func newLedgerError(kind error, err error, op string, args ...interface{}) *LedgerError {
	return &LedgerError{Kind: kind, Op: fmt.Sprintf(op, args...), Err: err}
}

// queryError builds LedgerError choosing between connection and query failure kinds
func queryError(err error, op string, args ...interface{}) *LedgerError {
	kind := ErrQueryFailed
	if isConnectionError(err) {
		kind = ErrConnectionFailed
	}
	return newLedgerError(kind, err, op, args...)
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// PlannerError is returned when the ledger references a migration which files are no longer on disk
type PlannerError struct {
	ID  MigrationID
	Err error
}

func (e *PlannerError) Error() string {
	return fmt.Sprintf("%s for applied migration %s", e.Err, e.ID)
}

// Unwrap returns the kind of the error
func (e *PlannerError) Unwrap() error {
	return e.Err
}

// ExecutionError describes the plan step which failed
type ExecutionError struct {
	ID MigrationID
	// Position is 1-based position of the step in the plan
	Position  int
	Direction Direction
	Err       error
}

func (e *ExecutionError) Error() string {
	verb := "apply"
	if e.Direction == DirectionDown {
		verb = "revert"
	}
	return fmt.Sprintf("step %d: can't %s migration %s: %v", e.Position, verb, e.ID, e.Err)
}

// Unwrap returns the underlying error, usually *LedgerError
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

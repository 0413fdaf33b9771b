package circulation

import (
	"errors"
)

// Not-found errors: the referenced record does not exist. No state change.
var (
	ErrItemNotFound        = errors.New("item not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrHolderNotFound      = errors.New("holder not found")
)

// Policy violations: the request conflicts with current circulation state.
// Surfaced with the specific reason, no state change.
var (
	ErrItemAlreadyExists     = errors.New("item already exists")
	ErrNotAvailable          = errors.New("no copies available")
	ErrHolderInactive        = errors.New("holder is not active")
	ErrAlreadyHolding        = errors.New("holder already has an active loan of this item")
	ErrItemAvailable         = errors.New("item is available, borrow it instead of reserving")
	ErrAlreadyReserved       = errors.New("holder already has a pending reservation for this item")
	ErrLoanNotActive         = errors.New("loan is not active")
	ErrReservationNotPending = errors.New("reservation is not pending")
)

// ErrConcurrencyConflict indicates that the item version moved between Load and
// Commit, so no rows were affected. It is the only retryable error: handlers
// re-load a fresh snapshot and decide again.
var ErrConcurrencyConflict = errors.New("concurrency conflict, no rows were affected")

// Engine construction errors.
var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrEmptyTableName        = errors.New("empty table name supplied")
	ErrInvalidTotalCopies    = errors.New("total copies must be at least 1")
)

// Storage failures: infrastructure errors wrapping the driver error. Handlers
// surface them unchanged; they are not retryable.
var (
	ErrBuildingQueryFailed       = errors.New("building database query failed")
	ErrLoadingStateFailed        = errors.New("loading circulation state failed")
	ErrCommittingChangesFailed   = errors.New("committing changeset failed")
	ErrScanningDBRowFailed       = errors.New("scanning database row failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected count failed")
)

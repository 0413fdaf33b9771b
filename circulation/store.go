package circulation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemState is the consistent snapshot a command handler decides against:
// the item record, its active loans, and its pending reservations, all read
// at the same Version. Pending reservations are sorted by (RequestedAt, Seq)
// ascending, so index 0 is the next reservation to promote.
type ItemState struct {
	Item                Item
	ActiveLoans         []Loan
	PendingReservations []Reservation
	Version             uint
}

// ActiveLoanFor returns the holder's active loan of this item, if any.
func (s ItemState) ActiveLoanFor(holderID uuid.UUID) (Loan, bool) {
	for _, loan := range s.ActiveLoans {
		if loan.HolderID == holderID {
			return loan, true
		}
	}

	return Loan{}, false
}

// PendingReservationFor returns the holder's pending reservation of this item, if any.
func (s ItemState) PendingReservationFor(holderID uuid.UUID) (Reservation, bool) {
	for _, reservation := range s.PendingReservations {
		if reservation.HolderID == holderID {
			return reservation, true
		}
	}

	return Reservation{}, false
}

// NextPendingReservation returns the oldest pending reservation, if any.
func (s ItemState) NextPendingReservation() (Reservation, bool) {
	if len(s.PendingReservations) == 0 {
		return Reservation{}, false
	}

	return s.PendingReservations[0], true
}

// Changeset is the atomic unit of change produced by a Decide function.
// Store.Commit applies every part of it in one transaction together with the
// availability adjustment, or none of it.
type Changeset struct {
	// AdjustAvailable is applied as available_copies += AdjustAvailable, guarded
	// by 0 <= result <= total_copies. Always -1, 0 or +1 in this engine.
	AdjustAvailable int

	InsertLoan *Loan
	UpdateLoan *Loan

	InsertReservation  *Reservation
	UpdateReservations []Reservation

	Notifications []Notification
}

// IsEmpty reports whether the changeset would change nothing.
func (c Changeset) IsEmpty() bool {
	return c.AdjustAvailable == 0 &&
		c.InsertLoan == nil &&
		c.UpdateLoan == nil &&
		c.InsertReservation == nil &&
		len(c.UpdateReservations) == 0 &&
		len(c.Notifications) == 0
}

// Store is the transactional collaborator owning Item, Loan and Reservation
// persistence. Implementations must make Commit a single atomic unit with
// optimistic concurrency on the item version: if the version moved since Load,
// Commit returns ErrConcurrencyConflict and leaves state untouched.
//
// Availability must never be written outside Commit, and Commit must apply the
// adjustment as a conditional update against the current persisted value, never
// as a read-then-write from a stale snapshot.
type Store interface {
	// InsertItem creates a new catalogued item with Version 0.
	// Returns ErrItemAlreadyExists if the ID is taken.
	InsertItem(ctx context.Context, item Item) error

	// Load reads the ItemState snapshot for one item.
	// Returns ErrItemNotFound if the item does not exist.
	Load(ctx context.Context, itemID uuid.UUID) (ItemState, error)

	// GetLoan reads a single loan. Returns ErrLoanNotFound if missing.
	GetLoan(ctx context.Context, loanID uuid.UUID) (Loan, error)

	// GetReservation reads a single reservation. Returns ErrReservationNotFound if missing.
	GetReservation(ctx context.Context, reservationID uuid.UUID) (Reservation, error)

	// Commit atomically applies the changeset to the item identified by itemID,
	// increments the item version, and adjusts availability within the invariant
	// bounds. Returns ErrConcurrencyConflict when expectedVersion no longer
	// matches, ErrNotAvailable when the adjustment would leave the invariant.
	Commit(ctx context.Context, itemID uuid.UUID, expectedVersion uint, changes Changeset) error

	// Read views over circulation state. These carry no version semantics.
	ActiveLoansByItem(ctx context.Context, itemID uuid.UUID) ([]Loan, error)
	ActiveLoansByHolder(ctx context.Context, holderID uuid.UUID) ([]Loan, error)
	OverdueLoans(ctx context.Context, asOf time.Time) ([]Loan, error)
	PendingReservationsByItem(ctx context.Context, itemID uuid.UUID) ([]Reservation, error)
	PendingReservationsByHolder(ctx context.Context, holderID uuid.UUID) ([]Reservation, error)
}

// HolderDirectory resolves holder identities to eligibility state. It is an
// external collaborator: the engine consults it read-only and never owns
// holder lifecycle. Implementations return ErrHolderNotFound for unknown IDs.
type HolderDirectory interface {
	GetHolder(ctx context.Context, holderID uuid.UUID) (Holder, error)
}

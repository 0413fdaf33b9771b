package circulation

import (
	"time"

	"github.com/google/uuid"
)

// LoanStatus is the lifecycle state of a Loan.
type LoanStatus string

// Loan lifecycle states. Returned is terminal.
const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

// ReservationStatus is the lifecycle state of a Reservation.
type ReservationStatus string

// Reservation lifecycle states. Fulfilled and Cancelled are terminal.
const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusFulfilled ReservationStatus = "fulfilled"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Item is a catalogued title with one or more physical copies.
//
// Version is the optimistic concurrency token: it increments on every committed
// change that touches the item's circulation state (availability, loans,
// reservations), never outside Store.Commit.
type Item struct {
	ID              uuid.UUID
	Title           string
	Author          string
	ISBN            string
	TotalCopies     int
	AvailableCopies int
	Version         uint
	CreatedAt       time.Time
}

// HasAvailableCopies reports whether at least one copy can be issued.
func (i Item) HasAvailableCopies() bool {
	return i.AvailableCopies > 0
}

// Loan records one copy held by one holder for a bounded period.
// Loans are append-only history: a returned loan is never deleted.
type Loan struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	HolderID   uuid.UUID
	IssuedAt   time.Time
	DueAt      time.Time
	ReturnedAt *time.Time
	FineAmount float64
	Status     LoanStatus
}

// IsOverdue reports whether the loan is active and past its due date.
func (l Loan) IsOverdue(now time.Time) bool {
	return l.Status == LoanStatusActive && now.After(l.DueAt)
}

// DaysOverdue returns the number of whole days the loan is past due, 0 if not overdue.
func (l Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}

	return int(now.Sub(l.DueAt).Hours() / 24)
}

// Reservation is a holder's place in line for an item with zero available copies.
//
// Seq is a per-item creation sequence assigned by the store at commit time; it
// breaks RequestedAt ties so that promotion order stays deterministic.
// Notified records that the holder has been told a copy is available; the
// reservation stays Pending until that holder's subsequent issue fulfills it.
type Reservation struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	HolderID    uuid.UUID
	RequestedAt time.Time
	Seq         uint64
	Status      ReservationStatus
	Notified    bool
}

// Holder is the external user record consulted for eligibility.
// The engine never owns holder lifecycle; it only reads the Active flag.
type Holder struct {
	ID     uuid.UUID
	Name   string
	Active bool
}

// Notification is the persisted "item available" message created when a returned
// copy promotes the next pending reservation. It doubles as a transactional outbox
// row: the store writes it in the same commit as the reservation update.
type Notification struct {
	ID        uuid.UUID
	HolderID  uuid.UUID
	ItemID    uuid.UUID
	Kind      string
	Message   string
	CreatedAt time.Time
}

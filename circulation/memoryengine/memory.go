package memoryengine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/circulation"
)

// CirculationStore is an in-memory circulation.Store.
//
// A single mutex guards all state. Commits are serialized, but the optimistic
// concurrency contract is still honored: two goroutines that load the same item
// version race for the commit, and the loser gets ErrConcurrencyConflict.
type CirculationStore struct {
	mu             sync.RWMutex
	items          map[uuid.UUID]circulation.Item
	loans          map[uuid.UUID]circulation.Loan
	reservations   map[uuid.UUID]circulation.Reservation
	notifications  []circulation.Notification
	reservationSeq map[uuid.UUID]uint64
}

// NewCirculationStore creates an empty in-memory store.
func NewCirculationStore() *CirculationStore {
	return &CirculationStore{
		items:          make(map[uuid.UUID]circulation.Item),
		loans:          make(map[uuid.UUID]circulation.Loan),
		reservations:   make(map[uuid.UUID]circulation.Reservation),
		reservationSeq: make(map[uuid.UUID]uint64),
	}
}

// InsertItem creates a new catalogued item with Version 0.
func (s *CirculationStore) InsertItem(_ context.Context, item circulation.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return circulation.ErrItemAlreadyExists
	}

	item.Version = 0
	s.items[item.ID] = item

	return nil
}

// Load reads the ItemState snapshot for one item.
func (s *CirculationStore) Load(_ context.Context, itemID uuid.UUID) (circulation.ItemState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[itemID]
	if !exists {
		return circulation.ItemState{}, circulation.ErrItemNotFound
	}

	state := circulation.ItemState{
		Item:                item,
		ActiveLoans:         s.activeLoansByItemLocked(itemID),
		PendingReservations: s.pendingReservationsByItemLocked(itemID),
		Version:             item.Version,
	}

	return state, nil
}

// GetLoan reads a single loan.
func (s *CirculationStore) GetLoan(_ context.Context, loanID uuid.UUID) (circulation.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loan, exists := s.loans[loanID]
	if !exists {
		return circulation.Loan{}, circulation.ErrLoanNotFound
	}

	return loan, nil
}

// GetReservation reads a single reservation.
func (s *CirculationStore) GetReservation(_ context.Context, reservationID uuid.UUID) (circulation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reservation, exists := s.reservations[reservationID]
	if !exists {
		return circulation.Reservation{}, circulation.ErrReservationNotFound
	}

	return reservation, nil
}

// Commit atomically applies the changeset with optimistic concurrency on the item version.
func (s *CirculationStore) Commit(
	_ context.Context,
	itemID uuid.UUID,
	expectedVersion uint,
	changes circulation.Changeset,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[itemID]
	if !exists {
		return circulation.ErrItemNotFound
	}

	if item.Version != expectedVersion {
		return circulation.ErrConcurrencyConflict
	}

	newAvailable := item.AvailableCopies + changes.AdjustAvailable
	if newAvailable < 0 || newAvailable > item.TotalCopies {
		return circulation.ErrNotAvailable
	}

	// Validate the whole changeset before touching any state, so a failed
	// commit never leaves partial writes behind.
	if changes.UpdateLoan != nil {
		if _, loanExists := s.loans[changes.UpdateLoan.ID]; !loanExists {
			return circulation.ErrLoanNotFound
		}
	}

	for _, reservation := range changes.UpdateReservations {
		if _, reservationExists := s.reservations[reservation.ID]; !reservationExists {
			return circulation.ErrReservationNotFound
		}
	}

	if changes.InsertLoan != nil {
		s.loans[changes.InsertLoan.ID] = *changes.InsertLoan
	}

	if changes.UpdateLoan != nil {
		s.loans[changes.UpdateLoan.ID] = *changes.UpdateLoan
	}

	if changes.InsertReservation != nil {
		reservation := *changes.InsertReservation
		s.reservationSeq[itemID]++
		reservation.Seq = s.reservationSeq[itemID]
		s.reservations[reservation.ID] = reservation
	}

	for _, reservation := range changes.UpdateReservations {
		// Seq is assigned once at insert and never rewritten.
		reservation.Seq = s.reservations[reservation.ID].Seq
		s.reservations[reservation.ID] = reservation
	}

	s.notifications = append(s.notifications, changes.Notifications...)

	item.AvailableCopies = newAvailable
	item.Version++
	s.items[itemID] = item

	return nil
}

// ActiveLoansByItem returns all active loans of one item.
func (s *CirculationStore) ActiveLoansByItem(_ context.Context, itemID uuid.UUID) ([]circulation.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.activeLoansByItemLocked(itemID), nil
}

// ActiveLoansByHolder returns all active loans held by one holder.
func (s *CirculationStore) ActiveLoansByHolder(_ context.Context, holderID uuid.UUID) ([]circulation.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loans := make([]circulation.Loan, 0)
	for _, loan := range s.loans {
		if loan.HolderID == holderID && loan.Status == circulation.LoanStatusActive {
			loans = append(loans, loan)
		}
	}

	sortLoansByIssuedAt(loans)

	return loans, nil
}

// OverdueLoans returns all active loans whose due date lies before asOf.
func (s *CirculationStore) OverdueLoans(_ context.Context, asOf time.Time) ([]circulation.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loans := make([]circulation.Loan, 0)
	for _, loan := range s.loans {
		if loan.IsOverdue(asOf) {
			loans = append(loans, loan)
		}
	}

	sortLoansByIssuedAt(loans)

	return loans, nil
}

// PendingReservationsByItem returns the pending queue of one item in promotion order.
func (s *CirculationStore) PendingReservationsByItem(_ context.Context, itemID uuid.UUID) ([]circulation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pendingReservationsByItemLocked(itemID), nil
}

// PendingReservationsByHolder returns all pending reservations of one holder.
func (s *CirculationStore) PendingReservationsByHolder(_ context.Context, holderID uuid.UUID) ([]circulation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reservations := make([]circulation.Reservation, 0)
	for _, reservation := range s.reservations {
		if reservation.HolderID == holderID && reservation.Status == circulation.ReservationStatusPending {
			reservations = append(reservations, reservation)
		}
	}

	sortReservationsByRequest(reservations)

	return reservations, nil
}

// NotificationsByHolder returns all notifications recorded for one holder, oldest first.
// This accessor is specific to the in-memory engine and mainly serves tests and examples.
func (s *CirculationStore) NotificationsByHolder(_ context.Context, holderID uuid.UUID) ([]circulation.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notifications := make([]circulation.Notification, 0)
	for _, notification := range s.notifications {
		if notification.HolderID == holderID {
			notifications = append(notifications, notification)
		}
	}

	return notifications, nil
}

func (s *CirculationStore) activeLoansByItemLocked(itemID uuid.UUID) []circulation.Loan {
	loans := make([]circulation.Loan, 0)
	for _, loan := range s.loans {
		if loan.ItemID == itemID && loan.Status == circulation.LoanStatusActive {
			loans = append(loans, loan)
		}
	}

	sortLoansByIssuedAt(loans)

	return loans
}

func (s *CirculationStore) pendingReservationsByItemLocked(itemID uuid.UUID) []circulation.Reservation {
	reservations := make([]circulation.Reservation, 0)
	for _, reservation := range s.reservations {
		if reservation.ItemID == itemID && reservation.Status == circulation.ReservationStatusPending {
			reservations = append(reservations, reservation)
		}
	}

	sortReservationsByRequest(reservations)

	return reservations
}

func sortLoansByIssuedAt(loans []circulation.Loan) {
	sort.Slice(loans, func(i, j int) bool {
		return loans[i].IssuedAt.Before(loans[j].IssuedAt)
	})
}

func sortReservationsByRequest(reservations []circulation.Reservation) {
	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].RequestedAt.Equal(reservations[j].RequestedAt) {
			return reservations[i].Seq < reservations[j].Seq
		}

		return reservations[i].RequestedAt.Before(reservations[j].RequestedAt)
	})
}

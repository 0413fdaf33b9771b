package memoryengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/circulation/memoryengine"
)

func Test_InsertItem_And_Load(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 3)

	// act
	insertErr := store.InsertItem(ctx, item)
	state, loadErr := store.Load(ctx, item.ID)

	// assert
	assert.NoError(t, insertErr)
	assert.NoError(t, loadErr)
	assert.Equal(t, item.ID, state.Item.ID)
	assert.Equal(t, uint(0), state.Version)
	assert.Empty(t, state.ActiveLoans)
	assert.Empty(t, state.PendingReservations)
}

func Test_InsertItem_Duplicate_ShouldFail(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 1)
	require.NoError(t, store.InsertItem(ctx, item))

	// act
	err := store.InsertItem(ctx, item)

	// assert
	assert.ErrorIs(t, err, circulation.ErrItemAlreadyExists)
}

func Test_Load_UnknownItem_ShouldFail(t *testing.T) {
	// setup
	store := memoryengine.NewCirculationStore()

	// act
	_, err := store.Load(context.Background(), uuid.New())

	// assert
	assert.ErrorIs(t, err, circulation.ErrItemNotFound)
}

func Test_Commit_BumpsVersion_And_AdjustsAvailability(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 3)
	require.NoError(t, store.InsertItem(ctx, item))

	loan := givenActiveLoan(t, item.ID)

	// act
	commitErr := store.Commit(ctx, item.ID, 0, circulation.Changeset{
		AdjustAvailable: -1,
		InsertLoan:      &loan,
	})
	state, loadErr := store.Load(ctx, item.ID)

	// assert
	assert.NoError(t, commitErr)
	assert.NoError(t, loadErr)
	assert.Equal(t, uint(1), state.Version)
	assert.Equal(t, 2, state.Item.AvailableCopies)
	require.Len(t, state.ActiveLoans, 1)
	assert.Equal(t, loan.ID, state.ActiveLoans[0].ID)
}

func Test_Commit_StaleVersion_ShouldConflict(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 3)
	require.NoError(t, store.InsertItem(ctx, item))
	require.NoError(t, store.Commit(ctx, item.ID, 0, circulation.Changeset{AdjustAvailable: -1}))

	// act: commit again with the stale version
	err := store.Commit(ctx, item.ID, 0, circulation.Changeset{AdjustAvailable: -1})

	// assert
	assert.ErrorIs(t, err, circulation.ErrConcurrencyConflict)
}

func Test_Commit_AvailabilityBounds_AreEnforced(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 1)
	require.NoError(t, store.InsertItem(ctx, item))

	// act: below zero
	belowErr := store.Commit(ctx, item.ID, 0, circulation.Changeset{AdjustAvailable: -2})

	// act: above total copies
	aboveErr := store.Commit(ctx, item.ID, 0, circulation.Changeset{AdjustAvailable: 1})

	// assert
	assert.ErrorIs(t, belowErr, circulation.ErrNotAvailable)
	assert.ErrorIs(t, aboveErr, circulation.ErrNotAvailable)

	state, loadErr := store.Load(ctx, item.ID)
	assert.NoError(t, loadErr)
	assert.Equal(t, uint(0), state.Version)
	assert.Equal(t, 1, state.Item.AvailableCopies)
}

func Test_Commit_UpdateLoan_UnknownLoan_ShouldFail(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 1)
	require.NoError(t, store.InsertItem(ctx, item))

	ghost := givenActiveLoan(t, item.ID)

	// act
	err := store.Commit(ctx, item.ID, 0, circulation.Changeset{UpdateLoan: &ghost})

	// assert
	assert.ErrorIs(t, err, circulation.ErrLoanNotFound)
}

func Test_Commit_FailedValidation_LeavesNoPartialWrites(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 2)
	require.NoError(t, store.InsertItem(ctx, item))

	loan := givenActiveLoan(t, item.ID)
	ghost := givenPendingReservation(t, item.ID, time.Unix(1000, 0).UTC())

	// act: the reservation update must fail, so nothing else may be applied
	err := store.Commit(ctx, item.ID, 0, circulation.Changeset{
		AdjustAvailable:    -1,
		InsertLoan:         &loan,
		UpdateReservations: []circulation.Reservation{ghost},
	})

	// assert
	assert.ErrorIs(t, err, circulation.ErrReservationNotFound)

	state, loadErr := store.Load(ctx, item.ID)
	require.NoError(t, loadErr)
	assert.Equal(t, uint(0), state.Version)
	assert.Equal(t, 2, state.Item.AvailableCopies)
	assert.Empty(t, state.ActiveLoans)

	_, getLoanErr := store.GetLoan(ctx, loan.ID)
	assert.ErrorIs(t, getLoanErr, circulation.ErrLoanNotFound)
}

func Test_Commit_UnknownUpdateLoan_DoesNotInsertReservation(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 1)
	require.NoError(t, store.InsertItem(ctx, item))

	ghost := givenActiveLoan(t, item.ID)
	reservation := givenPendingReservation(t, item.ID, time.Unix(1000, 0).UTC())

	// act
	err := store.Commit(ctx, item.ID, 0, circulation.Changeset{
		UpdateLoan:        &ghost,
		InsertReservation: &reservation,
	})

	// assert
	assert.ErrorIs(t, err, circulation.ErrLoanNotFound)

	_, getErr := store.GetReservation(ctx, reservation.ID)
	assert.ErrorIs(t, getErr, circulation.ErrReservationNotFound)
}

func Test_PendingReservations_KeepPromotionOrder(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 1)
	require.NoError(t, store.InsertItem(ctx, item))

	requestedAt := time.Unix(1000, 0).UTC()
	first := givenPendingReservation(t, item.ID, requestedAt)
	second := givenPendingReservation(t, item.ID, requestedAt) // same timestamp, later insert
	third := givenPendingReservation(t, item.ID, requestedAt.Add(time.Minute))

	for version, reservation := range []circulation.Reservation{first, second, third} {
		res := reservation
		require.NoError(t, store.Commit(ctx, item.ID, uint(version), circulation.Changeset{InsertReservation: &res}))
	}

	// act
	queue, err := store.PendingReservationsByItem(ctx, item.ID)

	// assert: equal timestamps break ties by insertion order
	assert.NoError(t, err)
	require.Len(t, queue, 3)
	assert.Equal(t, first.ID, queue[0].ID)
	assert.Equal(t, second.ID, queue[1].ID)
	assert.Equal(t, third.ID, queue[2].ID)
}

func Test_Commit_UpdateReservation_PreservesSeq(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 1)
	require.NoError(t, store.InsertItem(ctx, item))

	reservation := givenPendingReservation(t, item.ID, time.Unix(1000, 0).UTC())
	require.NoError(t, store.Commit(ctx, item.ID, 0, circulation.Changeset{InsertReservation: &reservation}))

	inserted, getErr := store.GetReservation(ctx, reservation.ID)
	require.NoError(t, getErr)
	require.NotZero(t, inserted.Seq)

	// act: mark notified with a zero Seq in the update
	updated := inserted
	updated.Seq = 0
	updated.Notified = true
	commitErr := store.Commit(ctx, item.ID, 1, circulation.Changeset{
		UpdateReservations: []circulation.Reservation{updated},
	})

	// assert
	assert.NoError(t, commitErr)
	after, err := store.GetReservation(ctx, reservation.ID)
	assert.NoError(t, err)
	assert.True(t, after.Notified)
	assert.Equal(t, inserted.Seq, after.Seq)
}

func Test_OverdueLoans_ReturnsOnlyActivePastDue(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 3)
	require.NoError(t, store.InsertItem(ctx, item))

	now := time.Unix(100000, 0).UTC()

	overdue := givenActiveLoan(t, item.ID)
	overdue.DueAt = now.Add(-time.Hour)

	current := givenActiveLoan(t, item.ID)
	current.DueAt = now.Add(time.Hour)

	returnedAt := now.Add(-time.Minute)
	returned := givenActiveLoan(t, item.ID)
	returned.DueAt = now.Add(-2 * time.Hour)
	returned.Status = circulation.LoanStatusReturned
	returned.ReturnedAt = &returnedAt

	require.NoError(t, store.Commit(ctx, item.ID, 0, circulation.Changeset{AdjustAvailable: -1, InsertLoan: &overdue}))
	require.NoError(t, store.Commit(ctx, item.ID, 1, circulation.Changeset{AdjustAvailable: -1, InsertLoan: &current}))
	require.NoError(t, store.Commit(ctx, item.ID, 2, circulation.Changeset{InsertLoan: &returned}))

	// act
	loans, err := store.OverdueLoans(ctx, now)

	// assert
	assert.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, overdue.ID, loans[0].ID)
}

func Test_Commit_Notifications_AreRecorded(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	item := givenItem(t, 1)
	require.NoError(t, store.InsertItem(ctx, item))

	holderID := uuid.New()
	notification := circulation.Notification{
		ID:        uuid.New(),
		HolderID:  holderID,
		ItemID:    item.ID,
		Kind:      "item_available",
		Message:   "a copy is waiting for you",
		CreatedAt: time.Unix(2000, 0).UTC(),
	}

	// act
	commitErr := store.Commit(ctx, item.ID, 0, circulation.Changeset{
		Notifications: []circulation.Notification{notification},
	})
	notifications, listErr := store.NotificationsByHolder(ctx, holderID)

	// assert
	assert.NoError(t, commitErr)
	assert.NoError(t, listErr)
	require.Len(t, notifications, 1)
	assert.Equal(t, notification.ID, notifications[0].ID)
}

func givenItem(t *testing.T, totalCopies int) circulation.Item {
	t.Helper()

	return circulation.Item{
		ID:              uuid.New(),
		Title:           "The Go Programming Language",
		Author:          "Donovan, Kernighan",
		ISBN:            "978-0134190440",
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		CreatedAt:       time.Unix(0, 0).UTC(),
	}
}

func givenActiveLoan(t *testing.T, itemID uuid.UUID) circulation.Loan {
	t.Helper()

	issuedAt := time.Unix(500, 0).UTC()

	return circulation.Loan{
		ID:       uuid.New(),
		ItemID:   itemID,
		HolderID: uuid.New(),
		IssuedAt: issuedAt,
		DueAt:    issuedAt.Add(14 * 24 * time.Hour),
		Status:   circulation.LoanStatusActive,
	}
}

func givenPendingReservation(t *testing.T, itemID uuid.UUID, requestedAt time.Time) circulation.Reservation {
	t.Helper()

	return circulation.Reservation{
		ID:          uuid.New(),
		ItemID:      itemID,
		HolderID:    uuid.New(),
		RequestedAt: requestedAt,
		Status:      circulation.ReservationStatusPending,
	}
}

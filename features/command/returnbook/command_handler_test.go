package returnbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/circulation/memoryengine"
	"github.com/opencirc/circulation-engine-go/core"
	"github.com/opencirc/circulation-engine-go/features/command/returnbook"
	"github.com/opencirc/circulation-engine-go/testutil"
)

func Test_CommandHandler_Return_ClosesLoan_AndRestoresAvailability(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	sink := testutil.NewEventSinkSpy()

	itemID, loanID := givenItemWithActiveLoan(t, store)

	handler := returnbook.NewCommandHandler(store, returnbook.WithEventSink(sink))
	command := returnbook.BuildCommand(loanID, core.DefaultFinePerDay, time.Now())

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)

	state, loadErr := store.Load(ctx, itemID)
	require.NoError(t, loadErr)
	assert.Equal(t, 1, state.Item.AvailableCopies)
	assert.Empty(t, state.ActiveLoans)

	loan, getErr := store.GetLoan(ctx, loanID)
	require.NoError(t, getErr)
	assert.Equal(t, circulation.LoanStatusReturned, loan.Status)
	require.NotNil(t, loan.ReturnedAt)

	assert.Equal(t, []string{core.LoanReturnedEventType}, sink.PublishedEventTypes())
}

func Test_CommandHandler_Return_Twice_FailsOnce_IncrementsOnce(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()

	itemID, loanID := givenItemWithActiveLoan(t, store)

	handler := returnbook.NewCommandHandler(store)

	_, firstErr := handler.Handle(ctx, returnbook.BuildCommand(loanID, core.DefaultFinePerDay, time.Now()))
	require.NoError(t, firstErr)

	// act
	_, secondErr := handler.Handle(ctx, returnbook.BuildCommand(loanID, core.DefaultFinePerDay, time.Now()))

	// assert: availability was incremented exactly once
	assert.ErrorIs(t, secondErr, circulation.ErrLoanNotActive)

	state, loadErr := store.Load(ctx, itemID)
	require.NoError(t, loadErr)
	assert.Equal(t, 1, state.Item.AvailableCopies)
}

func Test_CommandHandler_Return_NotifiesOldestReservation(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	sink := testutil.NewEventSinkSpy()

	itemID, loanID := givenItemWithActiveLoan(t, store)

	waitingHolderID := uuid.New()
	reservation := circulation.Reservation{
		ID:          uuid.New(),
		ItemID:      itemID,
		HolderID:    waitingHolderID,
		RequestedAt: time.Now().Add(-time.Hour),
		Status:      circulation.ReservationStatusPending,
	}
	require.NoError(t, store.Commit(ctx, itemID, 1, circulation.Changeset{InsertReservation: &reservation}))

	handler := returnbook.NewCommandHandler(store, returnbook.WithEventSink(sink))
	command := returnbook.BuildCommand(loanID, core.DefaultFinePerDay, time.Now())

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)

	notified, getErr := store.GetReservation(ctx, reservation.ID)
	require.NoError(t, getErr)
	assert.True(t, notified.Notified)
	assert.Equal(t, circulation.ReservationStatusPending, notified.Status)

	notifications, notifErr := store.NotificationsByHolder(ctx, waitingHolderID)
	require.NoError(t, notifErr)
	require.Len(t, notifications, 1)
	assert.Equal(t, command.NotificationID, notifications[0].ID)

	assert.Equal(t,
		[]string{core.LoanReturnedEventType, core.ItemAvailableForHolderEventType},
		sink.PublishedEventTypes(),
	)
}

func Test_CommandHandler_Return_Fails_WhenLoanUnknown(t *testing.T) {
	// setup
	store := memoryengine.NewCirculationStore()
	handler := returnbook.NewCommandHandler(store)

	// act
	_, err := handler.Handle(context.Background(), returnbook.BuildCommand(uuid.New(), core.DefaultFinePerDay, time.Now()))

	// assert
	assert.ErrorIs(t, err, circulation.ErrLoanNotFound)
}

func givenItemWithActiveLoan(t *testing.T, store *memoryengine.CirculationStore) (uuid.UUID, uuid.UUID) {
	t.Helper()

	ctx := context.Background()

	item := circulation.Item{
		ID:              testutil.GivenUniqueID(t),
		Title:           "Refactoring",
		TotalCopies:     1,
		AvailableCopies: 1,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.InsertItem(ctx, item))

	issuedAt := time.Now().Add(-24 * time.Hour)
	loan := circulation.Loan{
		ID:       testutil.GivenUniqueID(t),
		ItemID:   item.ID,
		HolderID: uuid.New(),
		IssuedAt: issuedAt,
		DueAt:    issuedAt.AddDate(0, 0, 14),
		Status:   circulation.LoanStatusActive,
	}
	require.NoError(t, store.Commit(ctx, item.ID, 0, circulation.Changeset{
		AdjustAvailable: -1,
		InsertLoan:      &loan,
	}))

	return item.ID, loan.ID
}

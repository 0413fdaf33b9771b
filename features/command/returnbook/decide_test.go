package returnbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
	"github.com/opencirc/circulation-engine-go/features/command/returnbook"
)

func Test_Decide_Success_OnTimeReturn_NoFine(t *testing.T) {
	// arrange
	now := time.Now()
	state, loan := givenStateWithActiveLoan(now.Add(time.Hour))
	command := returnbook.BuildCommand(loan.ID, core.DefaultFinePerDay, now)

	// act
	result := returnbook.Decide(state, loan, command)

	// assert
	assert.True(t, result.HasChangesToCommit())
	assert.NoError(t, result.HasError())
	assert.Equal(t, 1, result.Changes.AdjustAvailable)

	require.NotNil(t, result.Changes.UpdateLoan)
	closed := *result.Changes.UpdateLoan
	assert.Equal(t, circulation.LoanStatusReturned, closed.Status)
	require.NotNil(t, closed.ReturnedAt)
	assert.InDelta(t, 0.0, closed.FineAmount, 0.0001)

	require.Len(t, result.Events, 1)
	assert.Equal(t, core.LoanReturnedEventType, result.Events[0].IsEventType())
}

func Test_Decide_Success_LateReturn_ChargesWholeDays(t *testing.T) {
	// arrange
	now := time.Now()
	state, loan := givenStateWithActiveLoan(now.AddDate(0, 0, -5))
	command := returnbook.BuildCommand(loan.ID, core.DefaultFinePerDay, now)

	// act
	result := returnbook.Decide(state, loan, command)

	// assert
	require.NotNil(t, result.Changes.UpdateLoan)
	assert.InDelta(t, 5.0, result.Changes.UpdateLoan.FineAmount, 0.0001)
}

func Test_Decide_Success_FineOverride_WinsOverCalculation(t *testing.T) {
	// arrange
	now := time.Now()
	state, loan := givenStateWithActiveLoan(now.AddDate(0, 0, -5))
	command := returnbook.BuildCommandWithFineOverride(loan.ID, 0.0, now)

	// act
	result := returnbook.Decide(state, loan, command)

	// assert: the waived fine replaces the five late days
	require.NotNil(t, result.Changes.UpdateLoan)
	assert.InDelta(t, 0.0, result.Changes.UpdateLoan.FineAmount, 0.0001)
}

func Test_Decide_Success_NotifiesOldestPendingReservation(t *testing.T) {
	// arrange
	now := time.Now()
	state, loan := givenStateWithActiveLoan(now.Add(time.Hour))

	oldest := circulation.Reservation{
		ID:          uuid.New(),
		ItemID:      loan.ItemID,
		HolderID:    uuid.New(),
		RequestedAt: now.Add(-2 * time.Hour),
		Status:      circulation.ReservationStatusPending,
		Seq:         1,
	}
	younger := oldest
	younger.ID = uuid.New()
	younger.HolderID = uuid.New()
	younger.RequestedAt = now.Add(-time.Hour)
	younger.Seq = 2

	state.PendingReservations = []circulation.Reservation{oldest, younger}

	command := returnbook.BuildCommand(loan.ID, core.DefaultFinePerDay, now)

	// act
	result := returnbook.Decide(state, loan, command)

	// assert
	require.Len(t, result.Changes.UpdateReservations, 1)
	notified := result.Changes.UpdateReservations[0]
	assert.Equal(t, oldest.ID, notified.ID)
	assert.True(t, notified.Notified)
	assert.Equal(t, circulation.ReservationStatusPending, notified.Status)

	require.Len(t, result.Changes.Notifications, 1)
	notification := result.Changes.Notifications[0]
	assert.Equal(t, command.NotificationID, notification.ID)
	assert.Equal(t, oldest.HolderID, notification.HolderID)
	assert.Equal(t, core.NotificationKindReservation, notification.Kind)

	require.Len(t, result.Events, 2)
	assert.Equal(t, core.LoanReturnedEventType, result.Events[0].IsEventType())
	assert.Equal(t, core.ItemAvailableForHolderEventType, result.Events[1].IsEventType())
}

func Test_Decide_Error_WhenLoanAlreadyReturned(t *testing.T) {
	// arrange
	now := time.Now()
	state, loan := givenStateWithActiveLoan(now.Add(time.Hour))

	returnedAt := now.Add(-time.Minute)
	loan.Status = circulation.LoanStatusReturned
	loan.ReturnedAt = &returnedAt

	command := returnbook.BuildCommand(loan.ID, core.DefaultFinePerDay, now)

	// act
	result := returnbook.Decide(state, loan, command)

	// assert: the availability increment must not happen twice
	assert.False(t, result.HasChangesToCommit())
	assert.ErrorIs(t, result.HasError(), circulation.ErrLoanNotActive)
}

func givenStateWithActiveLoan(dueAt time.Time) (circulation.ItemState, circulation.Loan) {
	itemID := uuid.New()

	loan := circulation.Loan{
		ID:       uuid.New(),
		ItemID:   itemID,
		HolderID: uuid.New(),
		IssuedAt: dueAt.AddDate(0, 0, -14),
		DueAt:    dueAt,
		Status:   circulation.LoanStatusActive,
	}

	state := circulation.ItemState{
		Item: circulation.Item{
			ID:              itemID,
			Title:           "The Mythical Man-Month",
			TotalCopies:     1,
			AvailableCopies: 0,
		},
		ActiveLoans: []circulation.Loan{loan},
	}

	return state, loan
}

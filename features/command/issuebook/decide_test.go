package issuebook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
	"github.com/opencirc/circulation-engine-go/features/command/issuebook"
)

func Test_Decide_Success_WhenAllPreconditionsMet(t *testing.T) {
	// arrange
	itemID := uuid.New()
	holderID := uuid.New()
	now := time.Now()

	state := givenItemState(itemID, 3, 2)
	holder := givenActiveHolder(holderID)
	command := issuebook.BuildCommand(itemID, holderID, issuebook.DefaultLoanPeriodDays, now)

	// act
	result := issuebook.Decide(state, holder, command)

	// assert
	assert.True(t, result.HasChangesToCommit())
	assert.NoError(t, result.HasError())
	assert.Equal(t, -1, result.Changes.AdjustAvailable)

	require.NotNil(t, result.Changes.InsertLoan)
	loan := *result.Changes.InsertLoan
	assert.Equal(t, command.LoanID, loan.ID)
	assert.Equal(t, circulation.LoanStatusActive, loan.Status)
	assert.Equal(t, loan.IssuedAt.AddDate(0, 0, issuebook.DefaultLoanPeriodDays), loan.DueAt)

	require.Len(t, result.Events, 1)
	assert.Equal(t, core.LoanIssuedEventType, result.Events[0].IsEventType())
}

func Test_Decide_Success_FulfillsOwnPendingReservation(t *testing.T) {
	// arrange
	itemID := uuid.New()
	holderID := uuid.New()
	now := time.Now()

	reservation := circulation.Reservation{
		ID:          uuid.New(),
		ItemID:      itemID,
		HolderID:    holderID,
		RequestedAt: now.Add(-time.Hour),
		Status:      circulation.ReservationStatusPending,
		Notified:    true,
	}

	state := givenItemState(itemID, 1, 1)
	state.PendingReservations = []circulation.Reservation{reservation}

	command := issuebook.BuildCommand(itemID, holderID, issuebook.DefaultLoanPeriodDays, now)

	// act
	result := issuebook.Decide(state, givenActiveHolder(holderID), command)

	// assert
	assert.True(t, result.HasChangesToCommit())
	require.Len(t, result.Changes.UpdateReservations, 1)
	assert.Equal(t, reservation.ID, result.Changes.UpdateReservations[0].ID)
	assert.Equal(t, circulation.ReservationStatusFulfilled, result.Changes.UpdateReservations[0].Status)

	require.Len(t, result.Events, 2)
	assert.Equal(t, core.LoanIssuedEventType, result.Events[0].IsEventType())
	assert.Equal(t, core.ReservationFulfilledEventType, result.Events[1].IsEventType())
}

func Test_Decide_Success_LeavesOtherHoldersReservationsPending(t *testing.T) {
	// arrange
	itemID := uuid.New()
	holderID := uuid.New()
	now := time.Now()

	otherReservation := circulation.Reservation{
		ID:          uuid.New(),
		ItemID:      itemID,
		HolderID:    uuid.New(),
		RequestedAt: now.Add(-time.Hour),
		Status:      circulation.ReservationStatusPending,
	}

	state := givenItemState(itemID, 1, 1)
	state.PendingReservations = []circulation.Reservation{otherReservation}

	command := issuebook.BuildCommand(itemID, holderID, issuebook.DefaultLoanPeriodDays, now)

	// act
	result := issuebook.Decide(state, givenActiveHolder(holderID), command)

	// assert: the copy goes first-issue-wins, the queue is untouched
	assert.True(t, result.HasChangesToCommit())
	assert.Empty(t, result.Changes.UpdateReservations)
	require.Len(t, result.Events, 1)
	assert.Equal(t, core.LoanIssuedEventType, result.Events[0].IsEventType())
}

func Test_Decide_BusinessErrors(t *testing.T) {
	itemID := uuid.New()
	holderID := uuid.New()
	now := time.Now()

	activeLoan := circulation.Loan{
		ID:       uuid.New(),
		ItemID:   itemID,
		HolderID: holderID,
		IssuedAt: now.Add(-time.Hour),
		DueAt:    now.Add(13 * 24 * time.Hour),
		Status:   circulation.LoanStatusActive,
	}

	testCases := []struct {
		name        string
		state       circulation.ItemState
		holder      circulation.Holder
		expectedErr error
	}{
		{
			name:        "holder is not active",
			state:       givenItemState(itemID, 1, 1),
			holder:      circulation.Holder{ID: holderID, Active: false},
			expectedErr: circulation.ErrHolderInactive,
		},
		{
			name: "holder already has an active loan of this item",
			state: circulation.ItemState{
				Item:        givenItemState(itemID, 2, 1).Item,
				ActiveLoans: []circulation.Loan{activeLoan},
			},
			holder:      givenActiveHolder(holderID),
			expectedErr: circulation.ErrAlreadyHolding,
		},
		{
			name:        "no copies available",
			state:       givenItemState(itemID, 1, 0),
			holder:      givenActiveHolder(holderID),
			expectedErr: circulation.ErrNotAvailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			command := issuebook.BuildCommand(itemID, holderID, issuebook.DefaultLoanPeriodDays, now)
			result := issuebook.Decide(tc.state, tc.holder, command)

			// assert
			assert.False(t, result.HasChangesToCommit())
			assert.ErrorIs(t, result.HasError(), tc.expectedErr)
		})
	}
}

func givenItemState(itemID uuid.UUID, totalCopies int, availableCopies int) circulation.ItemState {
	return circulation.ItemState{
		Item: circulation.Item{
			ID:              itemID,
			Title:           "Structure and Interpretation of Computer Programs",
			TotalCopies:     totalCopies,
			AvailableCopies: availableCopies,
		},
	}
}

func givenActiveHolder(holderID uuid.UUID) circulation.Holder {
	return circulation.Holder{
		ID:     holderID,
		Name:   "Ada Lovelace",
		Active: true,
	}
}

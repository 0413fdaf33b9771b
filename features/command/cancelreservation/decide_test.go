package cancelreservation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
	"github.com/opencirc/circulation-engine-go/features/command/cancelreservation"
)

func Test_Decide_Success_WhenReservationIsPending(t *testing.T) {
	// arrange
	now := time.Now()
	reservation := givenReservation(circulation.ReservationStatusPending)
	command := cancelreservation.BuildCommand(reservation.ID, now)

	// act
	result := cancelreservation.Decide(reservation, command)

	// assert
	assert.True(t, result.HasChangesToCommit())
	assert.NoError(t, result.HasError())
	assert.Equal(t, 0, result.Changes.AdjustAvailable)

	require.Len(t, result.Changes.UpdateReservations, 1)
	cancelled := result.Changes.UpdateReservations[0]
	assert.Equal(t, reservation.ID, cancelled.ID)
	assert.Equal(t, circulation.ReservationStatusCancelled, cancelled.Status)

	require.Len(t, result.Events, 1)
	assert.Equal(t, core.ReservationCanceledEventType, result.Events[0].IsEventType())
}

func Test_Decide_Error_WhenReservationIsNotPending(t *testing.T) {
	testCases := []struct {
		name   string
		status circulation.ReservationStatus
	}{
		{name: "already cancelled", status: circulation.ReservationStatusCancelled},
		{name: "already fulfilled", status: circulation.ReservationStatusFulfilled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			reservation := givenReservation(tc.status)
			command := cancelreservation.BuildCommand(reservation.ID, time.Now())

			// act
			result := cancelreservation.Decide(reservation, command)

			// assert
			assert.False(t, result.HasChangesToCommit())
			assert.ErrorIs(t, result.HasError(), circulation.ErrReservationNotPending)
		})
	}
}

func givenReservation(status circulation.ReservationStatus) circulation.Reservation {
	return circulation.Reservation{
		ID:          uuid.New(),
		ItemID:      uuid.New(),
		HolderID:    uuid.New(),
		RequestedAt: time.Now().Add(-time.Hour),
		Status:      status,
	}
}

package cancelreservation

import (
	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
)

// Decide implements the business logic of cancelling a reservation.
// This is a pure function with no side effects - it takes the reservation being
// cancelled and a command and returns the changeset to commit.
//
// Business Rules:
//
//	GIVEN: A reservation with ReservationID
//	WHEN: CancelReservation command is received
//	THEN: The reservation transitions to Cancelled and ReservationCanceled is emitted
//	ERROR: ErrReservationNotPending if the reservation is Fulfilled or already Cancelled
func Decide(reservation circulation.Reservation, command Command) core.DecisionResult {
	if reservation.Status != circulation.ReservationStatusPending {
		return core.ErrorDecision(circulation.ErrReservationNotPending)
	}

	cancelled := reservation
	cancelled.Status = circulation.ReservationStatusCancelled

	changes := circulation.Changeset{
		UpdateReservations: []circulation.Reservation{cancelled},
	}

	return core.SuccessDecision(
		changes,
		core.BuildReservationCanceled(reservation.ID, reservation.ItemID, reservation.HolderID, command.OccurredAt),
	)
}

package reservebook

import (
	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
)

// Decide implements the business logic of joining an item's waiting list.
// This is a pure function with no side effects - it takes the current item state and a
// command and returns the changeset to commit based on the business rules.
//
// Business Rules:
//
//	GIVEN: An item with ItemID and a holder with HolderID
//	WHEN: ReserveBook command is received
//	THEN: A pending reservation joins the item's queue and ReservationPlaced is emitted
//	ERROR: ErrHolderInactive if the holder is not active
//	ERROR: ErrAlreadyHolding if the holder already has an active loan of this item
//	ERROR: ErrItemAvailable if a copy is available - borrow it instead of reserving
//	ERROR: ErrAlreadyReserved if the holder already has a pending reservation
func Decide(state circulation.ItemState, holder circulation.Holder, command Command) core.DecisionResult {
	if !holder.Active {
		return core.ErrorDecision(circulation.ErrHolderInactive)
	}

	if _, holding := state.ActiveLoanFor(command.HolderID); holding {
		return core.ErrorDecision(circulation.ErrAlreadyHolding)
	}

	if state.Item.HasAvailableCopies() {
		return core.ErrorDecision(circulation.ErrItemAvailable)
	}

	if _, reserved := state.PendingReservationFor(command.HolderID); reserved {
		return core.ErrorDecision(circulation.ErrAlreadyReserved)
	}

	reservation := circulation.Reservation{
		ID:          command.ReservationID,
		ItemID:      command.ItemID,
		HolderID:    command.HolderID,
		RequestedAt: command.OccurredAt,
		Status:      circulation.ReservationStatusPending,
	}

	changes := circulation.Changeset{
		InsertReservation: &reservation,
	}

	return core.SuccessDecision(
		changes,
		core.BuildReservationPlaced(reservation.ID, command.ItemID, command.HolderID, command.OccurredAt),
	)
}

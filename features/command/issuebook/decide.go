package issuebook

import (
	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
)

// Decide implements the business logic to determine whether a copy should be issued.
// This is a pure function with no side effects - it takes the current item state and a
// command and returns the changeset to commit based on the business rules.
//
// Business Rules:
//
//	GIVEN: An item with ItemID and a holder with HolderID
//	WHEN: IssueBook command is received
//	THEN: A loan is created, availability drops by one, and LoanIssued is emitted;
//	      a pending reservation of this holder transitions to Fulfilled in the same
//	      commit (emits ReservationFulfilled)
//	ERROR: ErrHolderInactive if the holder is not active
//	ERROR: ErrAlreadyHolding if the holder already has an active loan of this item
//	ERROR: ErrNotAvailable if no copy is available
func Decide(state circulation.ItemState, holder circulation.Holder, command Command) core.DecisionResult {
	if !holder.Active {
		return core.ErrorDecision(circulation.ErrHolderInactive)
	}

	if _, holding := state.ActiveLoanFor(command.HolderID); holding {
		return core.ErrorDecision(circulation.ErrAlreadyHolding)
	}

	if !state.Item.HasAvailableCopies() {
		return core.ErrorDecision(circulation.ErrNotAvailable)
	}

	loan := circulation.Loan{
		ID:       command.LoanID,
		ItemID:   command.ItemID,
		HolderID: command.HolderID,
		IssuedAt: command.OccurredAt,
		DueAt:    command.OccurredAt.AddDate(0, 0, command.LoanPeriodDays),
		Status:   circulation.LoanStatusActive,
	}

	changes := circulation.Changeset{
		AdjustAvailable: -1,
		InsertLoan:      &loan,
	}

	events := core.DomainEvents{
		core.BuildLoanIssued(loan.ID, command.ItemID, command.HolderID, loan.DueAt, command.OccurredAt),
	}

	// A successful issue satisfies the holder's own reservation.
	if reservation, reserved := state.PendingReservationFor(command.HolderID); reserved {
		reservation.Status = circulation.ReservationStatusFulfilled
		changes.UpdateReservations = []circulation.Reservation{reservation}
		events = append(events, core.BuildReservationFulfilled(reservation.ID, command.ItemID, command.HolderID, command.OccurredAt))
	}

	return core.SuccessDecision(changes, events...)
}

package returnbook

import (
	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
)

// Decide implements the business logic of closing a loan.
// This is a pure function with no side effects - it takes the current item state, the
// loan being returned and a command and returns the changeset to commit.
//
// Business Rules:
//
//	GIVEN: An active loan with LoanID
//	WHEN: ReturnBook command is received
//	THEN: The loan transitions to Returned with its fine, availability rises by one,
//	      and LoanReturned is emitted; if a pending reservation exists, the oldest one
//	      is marked notified, an "item available" notification is recorded, and
//	      ItemAvailableForHolder is emitted in the same commit
//	ERROR: ErrLoanNotActive if the loan was already returned - the availability
//	       increment must happen exactly once
func Decide(state circulation.ItemState, loan circulation.Loan, command Command) core.DecisionResult {
	if loan.Status != circulation.LoanStatusActive {
		return core.ErrorDecision(circulation.ErrLoanNotActive)
	}

	fine := core.CalculateFine(loan.DueAt, command.OccurredAt, command.FinePerDay)
	if command.FineOverride != nil {
		fine = *command.FineOverride
	}

	returnedAt := command.OccurredAt
	closed := loan
	closed.Status = circulation.LoanStatusReturned
	closed.ReturnedAt = &returnedAt
	closed.FineAmount = fine

	changes := circulation.Changeset{
		AdjustAvailable: 1,
		UpdateLoan:      &closed,
	}

	events := core.DomainEvents{
		core.BuildLoanReturned(loan.ID, loan.ItemID, loan.HolderID, fine, command.OccurredAt),
	}

	// Promotion: tell the oldest pending reservation holder a copy came back. The
	// reservation stays Pending - it is fulfilled only by that holder's own issue.
	if next, pending := state.NextPendingReservation(); pending {
		available := core.BuildItemAvailableForHolder(next.ID, loan.ItemID, next.HolderID, state.Item.Title, command.OccurredAt)

		next.Notified = true
		changes.UpdateReservations = []circulation.Reservation{next}
		changes.Notifications = []circulation.Notification{{
			ID:        command.NotificationID,
			HolderID:  next.HolderID,
			ItemID:    loan.ItemID,
			Kind:      core.NotificationKindReservation,
			Message:   available.Message,
			CreatedAt: command.OccurredAt,
		}}

		events = append(events, available)
	}

	return core.SuccessDecision(changes, events...)
}

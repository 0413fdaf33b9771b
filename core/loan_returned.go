package core

import (
	"time"

	"github.com/google/uuid"
)

// LoanReturnedEventType is the event type identifier.
const LoanReturnedEventType = "LoanReturned"

// LoanReturned represents when a holder returns a copy and the loan is closed.
type LoanReturned struct {
	EventType  string
	LoanID     LoanIDString
	ItemID     ItemIDString
	HolderID   HolderIDString
	FineAmount float64
	OccurredAt OccurredAtTS
}

// BuildLoanReturned creates a new LoanReturned event.
func BuildLoanReturned(
	loanID uuid.UUID,
	itemID uuid.UUID,
	holderID uuid.UUID,
	fineAmount float64,
	occurredAt time.Time,
) LoanReturned {

	return LoanReturned{
		EventType:  LoanReturnedEventType,
		LoanID:     loanID.String(),
		ItemID:     itemID.String(),
		HolderID:   holderID.String(),
		FineAmount: fineAmount,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanReturned) IsEventType() string {
	return LoanReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e LoanReturned) IsErrorEvent() bool {
	return false
}

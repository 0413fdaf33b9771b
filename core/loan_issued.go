package core

import (
	"time"

	"github.com/google/uuid"
)

// LoanIssuedEventType is the event type identifier.
const LoanIssuedEventType = "LoanIssued"

// LoanIssued represents when a copy of an item is issued to a holder.
type LoanIssued struct {
	EventType  string
	LoanID     LoanIDString
	ItemID     ItemIDString
	HolderID   HolderIDString
	DueAt      time.Time
	OccurredAt OccurredAtTS
}

// BuildLoanIssued creates a new LoanIssued event.
func BuildLoanIssued(
	loanID uuid.UUID,
	itemID uuid.UUID,
	holderID uuid.UUID,
	dueAt time.Time,
	occurredAt time.Time,
) LoanIssued {

	return LoanIssued{
		EventType:  LoanIssuedEventType,
		LoanID:     loanID.String(),
		ItemID:     itemID.String(),
		HolderID:   holderID.String(),
		DueAt:      ToOccurredAt(dueAt),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanIssued) IsEventType() string {
	return LoanIssuedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanIssued) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e LoanIssued) IsErrorEvent() bool {
	return false
}

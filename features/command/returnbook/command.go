package returnbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/core"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent to return a lent copy and close its loan.
//
// NotificationID is assigned when the command is built. It becomes the identity of
// the "item available" notification row if the return promotes a reservation, so a
// retried command records the same notification instead of minting a new one.
type Command struct {
	LoanID         uuid.UUID
	FinePerDay     float64
	FineOverride   *float64
	NotificationID uuid.UUID
	OccurredAt     core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// The fine is calculated from the loan's due date at the given rate.
func BuildCommand(loanID uuid.UUID, finePerDay float64, occurredAt time.Time) Command {
	return Command{
		LoanID:         loanID,
		FinePerDay:     finePerDay,
		NotificationID: uuid.New(),
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}

// BuildCommandWithFineOverride creates a new Command whose fine is fixed to the
// given amount instead of being calculated, e.g. for waived or negotiated fines.
func BuildCommandWithFineOverride(loanID uuid.UUID, fineOverride float64, occurredAt time.Time) Command {
	return Command{
		LoanID:         loanID,
		FineOverride:   &fineOverride,
		NotificationID: uuid.New(),
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}

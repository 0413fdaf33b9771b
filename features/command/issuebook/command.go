package issuebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/core"
)

const (
	commandType = "IssueBook"
)

// DefaultLoanPeriodDays is the standard lending period applied when callers
// do not choose one explicitly.
const DefaultLoanPeriodDays = 14

// Command represents the intent to issue a copy of an item to a holder.
// It encapsulates all the necessary information required to execute the issue book use case.
//
// LoanID is assigned when the command is built, so a retried command commits
// the same loan identity instead of minting a new one per attempt.
type Command struct {
	ItemID         uuid.UUID
	HolderID       uuid.UUID
	LoanID         uuid.UUID
	LoanPeriodDays int
	OccurredAt     core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID uuid.UUID, holderID uuid.UUID, loanPeriodDays int, occurredAt time.Time) Command {
	return Command{
		ItemID:         itemID,
		HolderID:       holderID,
		LoanID:         uuid.New(),
		LoanPeriodDays: loanPeriodDays,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}

package reservebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/core"
)

const (
	commandType = "ReserveBook"
)

// Command represents the intent to join the waiting list of an item.
//
// ReservationID is assigned when the command is built, so a retried command commits
// the same reservation identity instead of minting a new one per attempt.
type Command struct {
	ItemID        uuid.UUID
	HolderID      uuid.UUID
	ReservationID uuid.UUID
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID uuid.UUID, holderID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ItemID:        itemID,
		HolderID:      holderID,
		ReservationID: uuid.New(),
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}

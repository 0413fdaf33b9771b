package cancelreservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/core"
)

const (
	commandType = "CancelReservation"
)

// Command represents the intent to cancel a pending reservation.
type Command struct {
	ReservationID uuid.UUID
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ReservationID: reservationID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}

package core

import (
	"time"

	"github.com/google/uuid"
)

// ReservationCanceledEventType is the event type identifier.
const ReservationCanceledEventType = "ReservationCanceled"

// ReservationCanceled represents when a holder gives up their place in line.
type ReservationCanceled struct {
	EventType     string
	ReservationID ReservationIDString
	ItemID        ItemIDString
	HolderID      HolderIDString
	OccurredAt    OccurredAtTS
}

// BuildReservationCanceled creates a new ReservationCanceled event.
func BuildReservationCanceled(
	reservationID uuid.UUID,
	itemID uuid.UUID,
	holderID uuid.UUID,
	occurredAt time.Time,
) ReservationCanceled {

	return ReservationCanceled{
		EventType:     ReservationCanceledEventType,
		ReservationID: reservationID.String(),
		ItemID:        itemID.String(),
		HolderID:      holderID.String(),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationCanceled) IsEventType() string {
	return ReservationCanceledEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationCanceled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ReservationCanceled) IsErrorEvent() bool {
	return false
}

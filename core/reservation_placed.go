package core

import (
	"time"

	"github.com/google/uuid"
)

// ReservationPlacedEventType is the event type identifier.
const ReservationPlacedEventType = "ReservationPlaced"

// ReservationPlaced represents when a holder joins the waiting list for an item.
type ReservationPlaced struct {
	EventType     string
	ReservationID ReservationIDString
	ItemID        ItemIDString
	HolderID      HolderIDString
	OccurredAt    OccurredAtTS
}

// BuildReservationPlaced creates a new ReservationPlaced event.
func BuildReservationPlaced(
	reservationID uuid.UUID,
	itemID uuid.UUID,
	holderID uuid.UUID,
	occurredAt time.Time,
) ReservationPlaced {

	return ReservationPlaced{
		EventType:     ReservationPlacedEventType,
		ReservationID: reservationID.String(),
		ItemID:        itemID.String(),
		HolderID:      holderID.String(),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationPlaced) IsEventType() string {
	return ReservationPlacedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationPlaced) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ReservationPlaced) IsErrorEvent() bool {
	return false
}

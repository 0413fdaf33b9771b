package core

import (
	"time"

	"github.com/google/uuid"
)

// ReservationFulfilledEventType is the event type identifier.
const ReservationFulfilledEventType = "ReservationFulfilled"

// ReservationFulfilled represents when a pending reservation is satisfied by the
// holder's own successful issue of the reserved item.
type ReservationFulfilled struct {
	EventType     string
	ReservationID ReservationIDString
	ItemID        ItemIDString
	HolderID      HolderIDString
	OccurredAt    OccurredAtTS
}

// BuildReservationFulfilled creates a new ReservationFulfilled event.
func BuildReservationFulfilled(
	reservationID uuid.UUID,
	itemID uuid.UUID,
	holderID uuid.UUID,
	occurredAt time.Time,
) ReservationFulfilled {

	return ReservationFulfilled{
		EventType:     ReservationFulfilledEventType,
		ReservationID: reservationID.String(),
		ItemID:        itemID.String(),
		HolderID:      holderID.String(),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationFulfilled) IsEventType() string {
	return ReservationFulfilledEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationFulfilled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ReservationFulfilled) IsErrorEvent() bool {
	return false
}

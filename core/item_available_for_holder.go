package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ItemAvailableForHolderEventType is the event type identifier.
const ItemAvailableForHolderEventType = "ItemAvailableForHolder"

// NotificationKindReservation is the kind recorded on "item available" notifications.
const NotificationKindReservation = "reservation"

// ItemAvailableForHolder is the promotion notification: a returned copy became
// available and the oldest pending reservation holder is next in line. The copy
// is not held back for them - they must still issue the item themselves.
type ItemAvailableForHolder struct {
	EventType     string
	ReservationID ReservationIDString
	ItemID        ItemIDString
	HolderID      HolderIDString
	Message       string
	OccurredAt    OccurredAtTS
}

// BuildItemAvailableForHolder creates a new ItemAvailableForHolder event.
func BuildItemAvailableForHolder(
	reservationID uuid.UUID,
	itemID uuid.UUID,
	holderID uuid.UUID,
	itemTitle string,
	occurredAt time.Time,
) ItemAvailableForHolder {

	return ItemAvailableForHolder{
		EventType:     ItemAvailableForHolderEventType,
		ReservationID: reservationID.String(),
		ItemID:        itemID.String(),
		HolderID:      holderID.String(),
		Message:       fmt.Sprintf("Your reserved item '%s' is now available for pickup.", itemTitle),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemAvailableForHolder) IsEventType() string {
	return ItemAvailableForHolderEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemAvailableForHolder) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ItemAvailableForHolder) IsErrorEvent() bool {
	return false
}

package core

import (
	"time"

	"github.com/google/uuid"
)

// ItemAddedToCatalogEventType is the event type identifier.
const ItemAddedToCatalogEventType = "ItemAddedToCatalog"

// ItemAddedToCatalog represents when a new item enters the catalog with its copies.
type ItemAddedToCatalog struct {
	EventType   string
	ItemID      ItemIDString
	Title       string
	Author      string
	ISBN        string
	TotalCopies int
	OccurredAt  OccurredAtTS
}

// BuildItemAddedToCatalog creates a new ItemAddedToCatalog event.
func BuildItemAddedToCatalog(
	itemID uuid.UUID,
	title string,
	author string,
	isbn string,
	totalCopies int,
	occurredAt time.Time,
) ItemAddedToCatalog {

	return ItemAddedToCatalog{
		EventType:   ItemAddedToCatalogEventType,
		ItemID:      itemID.String(),
		Title:       title,
		Author:      author,
		ISBN:        isbn,
		TotalCopies: totalCopies,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemAddedToCatalog) IsEventType() string {
	return ItemAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ItemAddedToCatalog) IsErrorEvent() bool {
	return false
}

package queueposition

import (
	"github.com/google/uuid"
)

// QueuePosition represents the query result for one holder in one item's queue.
// Position is 1-indexed; it is 0 and InQueue is false when the holder has no
// pending reservation for the item.
type QueuePosition struct {
	ItemID      uuid.UUID
	HolderID    uuid.UUID
	Position    int
	InQueue     bool
	QueueLength int
}

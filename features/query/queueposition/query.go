package queueposition

import (
	"github.com/google/uuid"
)

const (
	queryType = "QueuePosition"
)

// Query represents the intent to query a holder's position in an item's reservation queue.
type Query struct {
	ItemID   uuid.UUID
	HolderID uuid.UUID
}

// BuildQuery creates a new Query with the provided item and holder IDs.
func BuildQuery(itemID uuid.UUID, holderID uuid.UUID) Query {
	return Query{
		ItemID:   itemID,
		HolderID: holderID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

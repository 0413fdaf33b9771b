package activeloans

import (
	"github.com/google/uuid"
)

const (
	queryType = "ActiveLoans"
)

// Query represents the intent to query active loans. Exactly one of ItemID
// and HolderID is set, depending on which Build function created it.
type Query struct {
	ItemID   uuid.UUID
	HolderID uuid.UUID
}

// BuildQueryForItem creates a new Query scoped to one item.
func BuildQueryForItem(itemID uuid.UUID) Query {
	return Query{
		ItemID: itemID,
	}
}

// BuildQueryForHolder creates a new Query scoped to one holder.
func BuildQueryForHolder(holderID uuid.UUID) Query {
	return Query{
		HolderID: holderID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

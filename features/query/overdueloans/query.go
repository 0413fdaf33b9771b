package overdueloans

import (
	"time"

	"github.com/opencirc/circulation-engine-go/core"
)

const (
	queryType = "OverdueLoans"
)

// Query represents the intent to query loans overdue as of a reference time.
type Query struct {
	AsOf       time.Time
	FinePerDay float64
}

// BuildQuery creates a new Query with the provided reference time and the
// default fine rate.
func BuildQuery(asOf time.Time) Query {
	return Query{
		AsOf:       asOf,
		FinePerDay: core.DefaultFinePerDay,
	}
}

// BuildQueryWithFineRate creates a new Query with an explicit fine rate.
func BuildQueryWithFineRate(asOf time.Time, finePerDay float64) Query {
	return Query{
		AsOf:       asOf,
		FinePerDay: finePerDay,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

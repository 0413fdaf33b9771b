package queueposition

import (
	"github.com/opencirc/circulation-engine-go/circulation"
)

// ProjectQueuePosition implements the query logic to determine a holder's queue position.
// This is a pure function with no side effects - it takes the item's pending reservations,
// already ordered by (RequestedAt, Seq) ascending, and returns the projected position.
//
// Query Logic:
//
//	GIVEN: An item with pending reservations and a holder with HolderID
//	WHEN: QueuePosition query is executed
//	THEN: QueuePosition struct is returned with the 1-indexed position
//	EXCLUDES: Holders without a pending reservation (Position 0, InQueue false)
func ProjectQueuePosition(pendingReservations []circulation.Reservation, query Query) QueuePosition {
	result := QueuePosition{
		ItemID:      query.ItemID,
		HolderID:    query.HolderID,
		QueueLength: len(pendingReservations),
	}

	for idx, reservation := range pendingReservations {
		if reservation.HolderID == query.HolderID {
			result.Position = idx + 1
			result.InQueue = true

			break
		}
	}

	return result
}

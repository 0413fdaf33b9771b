package pendingreservations

import (
	"slices"

	"github.com/opencirc/circulation-engine-go/circulation"
)

// ProjectPendingReservations implements the query logic to shape pending reservations
// into the result. This is a pure function with no side effects - it takes the
// reservations read from the store and returns the projected state in promotion
// order: (RequestedAt, Seq) ascending.
func ProjectPendingReservations(reservations []circulation.Reservation) PendingReservations {
	ordered := make([]circulation.Reservation, len(reservations))
	copy(ordered, reservations)

	slices.SortFunc(ordered, func(a, b circulation.Reservation) int {
		if cmp := a.RequestedAt.Compare(b.RequestedAt); cmp != 0 {
			return cmp
		}

		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		default:
			return 0
		}
	})

	infos := make([]ReservationInfo, 0, len(ordered))
	for _, reservation := range ordered {
		infos = append(infos, ReservationInfo{
			ReservationID: reservation.ID,
			ItemID:        reservation.ItemID,
			HolderID:      reservation.HolderID,
			RequestedAt:   reservation.RequestedAt,
			Notified:      reservation.Notified,
		})
	}

	return PendingReservations{
		Reservations: infos,
		Count:        len(infos),
	}
}

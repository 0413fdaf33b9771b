package pendingreservations

import (
	"time"

	"github.com/google/uuid"
)

// ReservationInfo represents information about one pending reservation.
// Notified reports whether the holder has already been told a copy is ready.
type ReservationInfo struct {
	ReservationID uuid.UUID
	ItemID        uuid.UUID
	HolderID      uuid.UUID
	RequestedAt   time.Time
	Notified      bool
}

// PendingReservations represents the query result containing reservations
// still waiting for a copy, in promotion order.
type PendingReservations struct {
	Reservations []ReservationInfo
	Count        int
}

package core

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// ItemIDString represents an item identifier.
type ItemIDString = string

// HolderIDString represents a holder identifier.
type HolderIDString = string

// LoanIDString represents a loan identifier.
type LoanIDString = string

// ReservationIDString represents a reservation identifier.
type ReservationIDString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

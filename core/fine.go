package core

import (
	"time"
)

// DefaultFinePerDay is the fine rate applied when the caller does not configure one.
const DefaultFinePerDay = 1.0

// CalculateFine is a pure function of the due and return dates: whole days late
// times the per-day rate, never negative. Returning on or before the due date
// costs nothing.
func CalculateFine(dueAt time.Time, returnedAt time.Time, ratePerDay float64) float64 {
	days := daysLate(dueAt, returnedAt)
	if days <= 0 {
		return 0
	}

	return float64(days) * ratePerDay
}

// daysLate returns the number of whole days between due and return, 0 when the
// return is not late.
func daysLate(dueAt time.Time, returnedAt time.Time) int {
	if !returnedAt.After(dueAt) {
		return 0
	}

	return int(returnedAt.Sub(dueAt).Hours() / 24)
}

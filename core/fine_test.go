package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opencirc/circulation-engine-go/core"
)

func Test_CalculateFine(t *testing.T) {
	dueAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		returnedAt time.Time
		ratePerDay float64
		expected   float64
	}{
		{
			name:       "five whole days late",
			returnedAt: dueAt.AddDate(0, 0, 5),
			ratePerDay: core.DefaultFinePerDay,
			expected:   5.0,
		},
		{
			name:       "returned before due date",
			returnedAt: dueAt.AddDate(0, 0, -2),
			ratePerDay: core.DefaultFinePerDay,
			expected:   0.0,
		},
		{
			name:       "returned exactly on the due date",
			returnedAt: dueAt,
			ratePerDay: core.DefaultFinePerDay,
			expected:   0.0,
		},
		{
			name:       "partial days are not charged",
			returnedAt: dueAt.Add(23 * time.Hour),
			ratePerDay: core.DefaultFinePerDay,
			expected:   0.0,
		},
		{
			name:       "one day plus a few hours counts as one day",
			returnedAt: dueAt.Add(30 * time.Hour),
			ratePerDay: core.DefaultFinePerDay,
			expected:   1.0,
		},
		{
			name:       "custom rate scales linearly",
			returnedAt: dueAt.AddDate(0, 0, 3),
			ratePerDay: 0.5,
			expected:   1.5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			fine := core.CalculateFine(dueAt, tc.returnedAt, tc.ratePerDay)

			// assert
			assert.InDelta(t, tc.expected, fine, 0.0001)
		})
	}
}

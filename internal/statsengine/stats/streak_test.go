package stats_test

import (
	"testing"
	"time"

	"github.com/liftlog/statsengine/internal/statsengine/stats"

	"github.com/stretchr/testify/assert"
)

func TestNextStreak(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	}

	testCases := []struct {
		name            string
		lastDate        *time.Time
		eventDate       time.Time
		current         int
		longest         int
		expectedCurrent int
		expectedLongest int
	}{
		{
			name:            "first ever activity",
			lastDate:        nil,
			eventDate:       day(10),
			current:         0,
			longest:         0,
			expectedCurrent: 1,
			expectedLongest: 1,
		},
		{
			name:            "next day extends streak",
			lastDate:        ptr(day(10)),
			eventDate:       day(11),
			current:         3,
			longest:         5,
			expectedCurrent: 4,
			expectedLongest: 5,
		},
		{
			name:            "next day sets new longest",
			lastDate:        ptr(day(10)),
			eventDate:       day(11),
			current:         5,
			longest:         5,
			expectedCurrent: 6,
			expectedLongest: 6,
		},
		{
			name:            "same day re-log not double counted",
			lastDate:        ptr(day(10)),
			eventDate:       day(10),
			current:         3,
			longest:         5,
			expectedCurrent: 3,
			expectedLongest: 5,
		},
		{
			name:            "two day gap resets",
			lastDate:        ptr(day(10)),
			eventDate:       day(12),
			current:         7,
			longest:         7,
			expectedCurrent: 1,
			expectedLongest: 7,
		},
		{
			name:            "long gap resets",
			lastDate:        ptr(day(1)),
			eventDate:       day(28),
			current:         2,
			longest:         9,
			expectedCurrent: 1,
			expectedLongest: 9,
		},
		{
			name:            "event before last activity resets",
			lastDate:        ptr(day(10)),
			eventDate:       day(8),
			current:         4,
			longest:         4,
			expectedCurrent: 1,
			expectedLongest: 4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			current, longest := stats.NextStreak(tc.lastDate, tc.eventDate, tc.current, tc.longest)
			assert.Equal(t, tc.expectedCurrent, current)
			assert.Equal(t, tc.expectedLongest, longest)
		})
	}
}

func TestNextStreak_DayGranularityUTC(t *testing.T) {
	// 23:50 and next day 00:10 are consecutive days, even minutes apart
	lateEvening := time.Date(2024, 3, 10, 23, 50, 0, 0, time.UTC)
	justAfterMidnight := time.Date(2024, 3, 11, 0, 10, 0, 0, time.UTC)

	current, longest := stats.NextStreak(&lateEvening, justAfterMidnight, 1, 1)
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, longest)

	// request timezone must not matter: 01:00+02:00 on the 11th is still the 10th in UTC
	cet := time.FixedZone("CET+2", 2*60*60)
	sameUTCDay := time.Date(2024, 3, 11, 1, 0, 0, 0, cet)
	current, longest = stats.NextStreak(&lateEvening, sameUTCDay, 1, 1)
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, longest)
}

func ptr(t time.Time) *time.Time {
	return &t
}

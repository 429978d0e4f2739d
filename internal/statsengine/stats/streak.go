package stats

import "time"

// DayUTC truncates a timestamp to its UTC calendar day. Streaks are
// counted in a single canonical timezone, decoupled from the request one.
func DayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextStreak advances a consecutive-day streak:
//   - event on the day after the last activity -> streak + 1
//   - event on the same day -> unchanged (re-logs don't double-count)
//   - anything else (gap, first activity, event before last) -> reset to 1
func NextStreak(lastDate *time.Time, eventDate time.Time, current, longest int) (newCurrent, newLongest int) {
	eventDay := DayUTC(eventDate)

	switch {
	case lastDate == nil:
		newCurrent = 1
	case eventDay.Equal(DayUTC(*lastDate).AddDate(0, 0, 1)):
		newCurrent = current + 1
	case eventDay.Equal(DayUTC(*lastDate)):
		newCurrent = current
	default:
		newCurrent = 1
	}

	newLongest = longest
	if newCurrent > newLongest {
		newLongest = newCurrent
	}
	return newCurrent, newLongest
}

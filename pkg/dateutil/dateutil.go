package dateutil

import "time"

func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// NextOccurrence returns the next instant strictly after t falling on the
// given weekday at hour:minute in t's location. If t is exactly on such an
// instant, the occurrence one week later is returned.
func NextOccurrence(t time.Time, weekday time.Weekday, hour, minute int) time.Time {
	daysAhead := (int(weekday) - int(t.Weekday()) + 7) % 7
	candidate := time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location()).
		AddDate(0, 0, daysAhead)
	if !candidate.After(t) {
		candidate = candidate.AddDate(0, 0, 7)
	}

	return candidate
}

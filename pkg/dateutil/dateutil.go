// Package dateutil holds the calendar-day arithmetic shared by the
// statistics engine and the stores. All comparisons are day-exact:
// year/month/day in the time's own location, time-of-day discarded.
package dateutil

import "time"

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysBetween returns the whole calendar days from earlier to later.
// Negative when later precedes earlier. Days are re-anchored in UTC so a
// DST-shortened day still counts as one day.
func DaysBetween(earlier, later time.Time) int {
	e := time.Date(earlier.Year(), earlier.Month(), earlier.Day(), 0, 0, 0, 0, time.UTC)
	l := time.Date(later.Year(), later.Month(), later.Day(), 0, 0, 0, 0, time.UTC)
	return int(l.Sub(e).Hours() / 24)
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns midnight on the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// WithinDays reports whether t's day lies in [from, from+days] inclusive,
// counting calendar days.
func WithinDays(t, from time.Time, days int) bool {
	diff := DaysBetween(from, t)
	return diff >= 0 && diff <= days
}

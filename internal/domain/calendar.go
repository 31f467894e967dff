package domain

import "time"

// All calendar arithmetic is done on UTC days. A "day" is the half-open
// interval [midnight UTC, next midnight UTC).

// CalendarDay truncates t to midnight UTC of its UTC calendar date.
func CalendarDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayWindow is a half-open [Start, End) time range.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// WindowFor returns the one-day window containing t.
func WindowFor(t time.Time) DayWindow {
	start := CalendarDay(t)
	return DayWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// Contains reports whether t is inside the window.
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Weekday returns 0 (Sunday) .. 6 (Saturday) for the UTC calendar date of t.
func Weekday(t time.Time) int {
	return int(t.UTC().Weekday())
}

// MonthWindow returns [first of month, first of next month) in UTC.
func MonthWindow(year int, month time.Month) DayWindow {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return DayWindow{Start: start, End: start.AddDate(0, 1, 0)}
}

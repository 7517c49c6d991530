package report

import (
	"time"

	"calmdrive/internal/trip"
)

// Window defines the inclusive calendar-day range over which trips are
// fetched, synthesized and aggregated.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow creates a window with both boundaries normalized to midnight.
// Callers must ensure from <= to.
func NewWindow(from, to time.Time) Window {
	return Window{Start: trip.Day(from), End: trip.Day(to)}
}

// AlignToWeek expands the window so a partial week still yields a full
// Mon-Sun day set: the start snaps back to Monday, the end forward to Sunday.
func (w Window) AlignToWeek() Window {
	start := w.Start
	weekday := int(start.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday -> 7
	}
	start = start.AddDate(0, 0, -(weekday - 1))

	end := w.End
	weekday = int(end.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	end = end.AddDate(0, 0, 7-weekday)

	return Window{Start: start, End: end}
}

// DayCount returns the number of calendar days in the window, inclusive.
func (w Window) DayCount() int {
	return trip.DaysBetween(w.Start, w.End)
}

// Days enumerates every calendar day in the window, oldest first.
func (w Window) Days() []time.Time {
	days := make([]time.Time, 0, w.DayCount())
	for current := w.Start; !current.After(w.End); current = current.AddDate(0, 0, 1) {
		days = append(days, current)
	}
	return days
}

// Previous returns the immediately preceding window of equal length,
// used as the baseline for headline-stat deltas.
func (w Window) Previous() Window {
	n := w.DayCount()
	return Window{Start: w.Start.AddDate(0, 0, -n), End: w.Start.AddDate(0, 0, -1)}
}

// Label returns the chart label for a day bucket: the short weekday name
// for windows of at most one week, the calendar date otherwise.
func (w Window) Label(t time.Time) string {
	if w.DayCount() <= 7 {
		return t.Format("Mon")
	}
	return t.Format(trip.DateLayout)
}

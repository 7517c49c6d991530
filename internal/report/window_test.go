package report

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowDayCount(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{"SingleDay", day(2025, 10, 1), day(2025, 10, 1), 1},
		{"Week", day(2025, 10, 1), day(2025, 10, 7), 7},
		{"Month", day(2025, 10, 1), day(2025, 10, 31), 31},
		{"AcrossMonthBoundary", day(2025, 9, 28), day(2025, 10, 4), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.from, tt.to)
			if got := w.DayCount(); got != tt.expected {
				t.Errorf("DayCount() = %d, want %d", got, tt.expected)
			}
			if got := len(w.Days()); got != tt.expected {
				t.Errorf("len(Days()) = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestWindowNormalizesTimeOfDay(t *testing.T) {
	from := time.Date(2025, 10, 1, 14, 30, 12, 0, time.UTC)
	to := time.Date(2025, 10, 2, 3, 0, 0, 0, time.UTC)

	w := NewWindow(from, to)
	if w.Start.Hour() != 0 || w.End.Hour() != 0 {
		t.Errorf("boundaries not snapped to midnight: %v / %v", w.Start, w.End)
	}
	if w.DayCount() != 2 {
		t.Errorf("DayCount() = %d, want 2", w.DayCount())
	}
}

func TestWindowDayCountAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	// 2025-03-09 is only 23 hours long in this location; the elapsed
	// time between the boundaries is under 3 full days but the window
	// still spans 3 calendar days.
	w := NewWindow(
		time.Date(2025, 3, 8, 0, 0, 0, 0, loc),
		time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
	)

	if got := w.DayCount(); got != 3 {
		t.Errorf("DayCount() = %d, want 3", got)
	}
	if got := len(w.Days()); got != w.DayCount() {
		t.Errorf("len(Days()) = %d, DayCount() = %d, want equal", got, w.DayCount())
	}
	if prev := w.Previous(); prev.DayCount() != 3 {
		t.Errorf("Previous().DayCount() = %d, want 3", prev.DayCount())
	}
}

func TestAlignToWeek(t *testing.T) {
	tests := []struct {
		name          string
		window        Window
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			// 2025-10-01 is a Wednesday.
			"MidWeekPartial",
			NewWindow(day(2025, 10, 1), day(2025, 10, 3)),
			day(2025, 9, 29), day(2025, 10, 5),
		},
		{
			"SundayOnly",
			NewWindow(day(2025, 10, 5), day(2025, 10, 5)),
			day(2025, 9, 29), day(2025, 10, 5),
		},
		{
			"AlreadyAligned",
			NewWindow(day(2025, 9, 29), day(2025, 10, 5)),
			day(2025, 9, 29), day(2025, 10, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.window.AlignToWeek()
			if !got.Start.Equal(tt.expectedStart) {
				t.Errorf("Start = %v, want %v", got.Start, tt.expectedStart)
			}
			if !got.End.Equal(tt.expectedEnd) {
				t.Errorf("End = %v, want %v", got.End, tt.expectedEnd)
			}
			if got.Start.Weekday() != time.Monday {
				t.Errorf("aligned start is %v, want Monday", got.Start.Weekday())
			}
			if got.End.Weekday() != time.Sunday {
				t.Errorf("aligned end is %v, want Sunday", got.End.Weekday())
			}
		})
	}
}

func TestWindowPrevious(t *testing.T) {
	w := NewWindow(day(2025, 10, 8), day(2025, 10, 14))
	prev := w.Previous()

	if prev.DayCount() != w.DayCount() {
		t.Errorf("previous window has %d days, want %d", prev.DayCount(), w.DayCount())
	}
	if !prev.Start.Equal(day(2025, 10, 1)) || !prev.End.Equal(day(2025, 10, 7)) {
		t.Errorf("Previous() = [%v, %v], want [2025-10-01, 2025-10-07]", prev.Start, prev.End)
	}
}

func TestWindowLabel(t *testing.T) {
	weekly := NewWindow(day(2025, 9, 29), day(2025, 10, 5))
	if got := weekly.Label(day(2025, 9, 29)); got != "Mon" {
		t.Errorf("weekly label = %s, want Mon", got)
	}

	monthly := NewWindow(day(2025, 10, 1), day(2025, 10, 31))
	if got := monthly.Label(day(2025, 10, 24)); got != "2025-10-24" {
		t.Errorf("monthly label = %s, want 2025-10-24", got)
	}
}

package trip

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

// fixedRand returns the same float on every draw and zero for Intn.
type fixedRand struct {
	f float64
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return 0 }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateNeverEmpty(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
	}{
		{"SingleDay", date(2025, 10, 1), date(2025, 10, 1)},
		{"Week", date(2025, 10, 1), date(2025, 10, 7)},
		{"Month", date(2025, 10, 1), date(2025, 10, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				s := NewSynthesizer(rand.New(rand.NewSource(seed)))
				if got := s.Generate(tt.from, tt.to); len(got) == 0 {
					t.Errorf("Generate() empty for seed %d", seed)
				}
			}
		})
	}
}

func TestGenerateInvariants(t *testing.T) {
	from := date(2025, 10, 1)
	to := date(2025, 10, 30)

	for seed := int64(0); seed < 50; seed++ {
		s := NewSynthesizer(rand.New(rand.NewSource(seed)))
		trips := s.Generate(from, to)

		for i, tr := range trips {
			if tr.AvgFatigue < 35 || tr.AvgFatigue > 95 {
				t.Errorf("seed %d trip %d: fatigue %d out of [35,95]", seed, i, tr.AvgFatigue)
			}
			if tr.DistanceKm < 5 {
				t.Errorf("seed %d trip %d: distance %d below floor", seed, i, tr.DistanceKm)
			}
			if tr.AlertCount < 0 || tr.AlertCount > 8 {
				t.Errorf("seed %d trip %d: alerts %d out of [0,8]", seed, i, tr.AlertCount)
			}
			if tr.DurationMinutes < 30 || tr.DurationMinutes > 360 {
				t.Errorf("seed %d trip %d: duration %d out of [30,360]", seed, i, tr.DurationMinutes)
			}
			if got := int(tr.EndTime.Sub(tr.StartTime).Minutes()); got != tr.DurationMinutes {
				t.Errorf("seed %d trip %d: end-start = %dm, want %dm", seed, i, got, tr.DurationMinutes)
			}
			if tr.Date < "2025-10-01" || tr.Date > "2025-10-30" {
				t.Errorf("seed %d trip %d: date %s outside window", seed, i, tr.Date)
			}
			if i > 0 && trips[i-1].Date < tr.Date {
				t.Errorf("seed %d trip %d: dates not newest-first (%s after %s)", seed, i, tr.Date, trips[i-1].Date)
			}
		}
	}
}

func TestGenerateSpansDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	// 2025-03-09 is the spring-forward day, only 23 hours long; the
	// window must still cover all three calendar days.
	from := time.Date(2025, 3, 8, 0, 0, 0, 0, loc)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	// A 0.3 roll lands in the one-trip band, so a skipped day is
	// visible as a missing date.
	s := NewSynthesizer(fixedRand{f: 0.3})
	trips := s.Generate(from, to)

	dates := make(map[string]bool)
	for _, tr := range trips {
		dates[tr.Date] = true
	}
	for _, want := range []string{"2025-03-08", "2025-03-09", "2025-03-10"} {
		if !dates[want] {
			t.Errorf("no trip synthesized for %s, got %v", want, dates)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{"SameDay", date(2025, 10, 1), date(2025, 10, 1), 1},
		{"Week", date(2025, 10, 1), date(2025, 10, 7), 7},
		{"AcrossMonthBoundary", date(2025, 9, 28), date(2025, 10, 4), 7},
		{"AcrossYearBoundary", date(2025, 12, 30), date(2026, 1, 2), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.expected {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	from := date(2025, 10, 1)
	to := date(2025, 10, 14)

	a := NewSynthesizer(rand.New(rand.NewSource(42))).Generate(from, to)
	b := NewSynthesizer(rand.New(rand.NewSource(42))).Generate(from, to)

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different trip sets")
	}
}

func TestGenerateFallbackTrip(t *testing.T) {
	// Every daily draw lands in the 15% zero-trip band.
	s := NewSynthesizer(fixedRand{f: 0.1})

	trips := s.Generate(date(2025, 10, 1), date(2025, 10, 1))
	if len(trips) != 1 {
		t.Fatalf("Generate() returned %d trips, want exactly 1 fallback", len(trips))
	}

	got := trips[0]
	if got.Date != "2025-10-01" {
		t.Errorf("fallback date = %s, want 2025-10-01", got.Date)
	}
	if got.DurationMinutes != 75 {
		t.Errorf("fallback duration = %d, want 75", got.DurationMinutes)
	}
	if got.DurationLabel() != "1h 15m" {
		t.Errorf("fallback duration label = %s, want 1h 15m", got.DurationLabel())
	}
	if got.DistanceKm != 90 {
		t.Errorf("fallback distance = %d, want 90", got.DistanceKm)
	}
	if got.AvgFatigue != 62 {
		t.Errorf("fallback fatigue = %d, want 62", got.AvgFatigue)
	}
	if got.AlertCount != 1 {
		t.Errorf("fallback alerts = %d, want 1", got.AlertCount)
	}
	if got.StartTime.Hour() != 9 || got.StartTime.Minute() != 15 {
		t.Errorf("fallback start = %v, want 09:15", got.StartTime)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		minutes  int
		expected string
	}{
		{"UnderAnHour", 42, "0h 42m"},
		{"ExactHours", 120, "2h 0m"},
		{"Mixed", 154, "2h 34m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.minutes); got != tt.expected {
				t.Errorf("FormatDuration(%d) = %s, want %s", tt.minutes, got, tt.expected)
			}
		})
	}
}

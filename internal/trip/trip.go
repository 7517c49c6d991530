package trip

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day key format used for bucketing and storage.
const DateLayout = "2006-01-02"

// Record represents one completed (or synthesized) driving session.
type Record struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"` // yyyy-MM-dd, the bucketing key
	StartTime       time.Time `json:"start_time,omitzero"`
	EndTime         time.Time `json:"end_time,omitzero"`
	DurationMinutes int       `json:"duration_minutes"`
	DistanceKm      int       `json:"distance_km"`
	AvgFatigue      int       `json:"avg_fatigue"` // 0-100, higher is more alert
	AlertCount      int       `json:"alerts"`
	RouteName       string    `json:"route_name,omitempty"`
}

// Routes is the fixed catalog of route labels assigned to synthesized trips.
var Routes = []string{
	"I-80 Eastbound",
	"US-101 North",
	"I-5 Corridor",
	"Coastal Route",
	"Mountain Pass",
	"City Loop",
	"Suburban Express",
	"Rural Scenic Byway",
}

// DurationLabel renders the trip duration as "2h 15m".
func (r Record) DurationLabel() string {
	return FormatDuration(r.DurationMinutes)
}

// DistanceLabel renders the trip distance as "142 km".
func (r Record) DistanceLabel() string {
	return fmt.Sprintf("%d km", r.DistanceKm)
}

// FormatDuration renders a minute count as "2h 15m".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Day returns the calendar day of t truncated to midnight in t's location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween counts the calendar days from from to to, inclusive. Both
// boundaries are compared by date components in UTC, so a 23- or 25-hour
// day at a DST transition never skews the count.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours()/24) + 1
}

package report

import (
	"fmt"
	"math"

	"calmdrive/internal/trip"
)

// DayBucket aggregates all trips sharing one calendar day.
type DayBucket struct {
	Label      string `json:"label"`
	Date       string `json:"date"`
	AvgFatigue int    `json:"fatigue"` // 0 when the day has no trips
	TripCount  int    `json:"trips"`
	AlertTotal int    `json:"alerts"`
}

// SummaryStat is a single headline KPI for the reports view.
type SummaryStat struct {
	Label         string `json:"label"`
	Value         string `json:"value"`
	ChangePercent string `json:"change"`
	Trend         string `json:"trend"` // "up" or "down"
}

// BucketByDay produces one DayBucket per calendar day in the window,
// oldest first, with no gaps. A trip's date string is the sole bucketing
// key; time of day is irrelevant. Empty days yield zeroed buckets.
func BucketByDay(trips []trip.Record, win Window) []DayBucket {
	buckets := make([]DayBucket, 0, win.DayCount())

	for _, day := range win.Days() {
		key := day.Format(trip.DateLayout)

		bucket := DayBucket{
			Label: win.Label(day),
			Date:  key,
		}

		var fatigueSum int
		for _, tr := range trips {
			if tr.Date != key {
				continue
			}
			bucket.TripCount++
			bucket.AlertTotal += tr.AlertCount
			fatigueSum += tr.AvgFatigue
		}

		if bucket.TripCount > 0 {
			bucket.AvgFatigue = int(math.Round(float64(fatigueSum) / float64(bucket.TripCount)))
		}

		buckets = append(buckets, bucket)
	}

	return buckets
}

// metrics holds the raw headline numbers behind the four summary stats.
type metrics struct {
	tripCount    int
	avgFatigue   float64
	alertTotal   int
	drivingHours float64
}

func computeMetrics(trips []trip.Record) metrics {
	var m metrics
	var fatigueSum, minuteSum int

	for _, tr := range trips {
		m.tripCount++
		m.alertTotal += tr.AlertCount
		fatigueSum += tr.AvgFatigue
		minuteSum += tr.DurationMinutes
	}

	if m.tripCount > 0 {
		m.avgFatigue = float64(fatigueSum) / float64(m.tripCount)
	}
	m.drivingHours = float64(minuteSum) / 60

	return m
}

// Summarize computes the fixed four headline stats with flat deltas.
func Summarize(trips []trip.Record) []SummaryStat {
	return SummarizeWithBaseline(trips, nil)
}

// SummarizeWithBaseline computes the four headline stats, deriving each
// change percentage against the trips of the immediately preceding
// equal-length window. A nil baseline yields flat "+0%" deltas.
func SummarizeWithBaseline(trips, baseline []trip.Record) []SummaryStat {
	cur := computeMetrics(trips)

	var base metrics
	hasBaseline := baseline != nil
	if hasBaseline {
		base = computeMetrics(baseline)
	}

	stat := func(label, value string, cur, base float64) SummaryStat {
		change, trend := "+0%", "up"
		if hasBaseline {
			change, trend = delta(cur, base)
		}
		return SummaryStat{Label: label, Value: value, ChangePercent: change, Trend: trend}
	}

	return []SummaryStat{
		stat("Total Trips", fmt.Sprintf("%d", cur.tripCount), float64(cur.tripCount), float64(base.tripCount)),
		stat("Avg Fatigue Score", fmt.Sprintf("%d", int(math.Round(cur.avgFatigue))), cur.avgFatigue, base.avgFatigue),
		stat("Total Alerts", fmt.Sprintf("%d", cur.alertTotal), float64(cur.alertTotal), float64(base.alertTotal)),
		stat("Driving Hours", fmt.Sprintf("%dh", int(math.Round(cur.drivingHours))), cur.drivingHours, base.drivingHours),
	}
}

// delta renders a signed percentage change and its trend direction.
// A zero base collapses to a flat delta rather than dividing by zero.
func delta(cur, base float64) (string, string) {
	if base == 0 {
		if cur > 0 {
			return "+100%", "up"
		}
		return "+0%", "up"
	}

	pct := int(math.Round((cur - base) / base * 100))
	trend := "up"
	if pct < 0 {
		trend = "down"
	}
	return fmt.Sprintf("%+d%%", pct), trend
}

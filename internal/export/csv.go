// Package export serializes trips, day buckets and headline stats into
// downloadable report artifacts.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"calmdrive/internal/trip"
)

// CSVHeader is the fixed column order of the flat-row export.
const CSVHeader = "Date,Duration,Distance,Avg Fatigue,Alerts"

// Filename names a report artifact after its generation day, e.g.
// "driving-report-2025-10-24.csv".
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("driving-report-%s.%s", now.Format(trip.DateLayout), ext)
}

// WriteCSV serializes trips as comma-joined rows under CSVHeader. Fields
// are controlled formatted strings, never free text, so no quoting or
// escaping is applied. The document is assembled in memory and flushed to
// w in a single write.
func WriteCSV(w io.Writer, trips []trip.Record) error {
	var buf bytes.Buffer
	buf.WriteString(CSVHeader)

	for _, tr := range trips {
		buf.WriteByte('\n')
		buf.WriteString(strings.Join([]string{
			tr.Date,
			tr.DurationLabel(),
			tr.DistanceLabel(),
			strconv.Itoa(tr.AvgFatigue),
			strconv.Itoa(tr.AlertCount),
		}, ","))
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to flush csv report: %w", err)
	}
	return nil
}

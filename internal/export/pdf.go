package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"calmdrive/internal/report"
	"calmdrive/internal/trip"
)

// Accent color of the report header and table heads (the dashboard's
// primary blue).
var accent = [3]int{59, 130, 246}

// WritePDF builds the paginated report document and flushes it to w in a
// single write. Layout, in order: title and generation timestamp, summary
// statistics, daily performance, and the trips table on a fresh page.
func WritePDF(w io.Writer, trips []trip.Record, buckets []report.DayBucket, stats []report.SummaryStat, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(accent[0], accent[1], accent[2])
	pdf.Cell(0, 10, "Driving Safety Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 6, "Generated: "+now.Format("January 2, 2006"))
	pdf.Ln(12)

	// Summary statistics
	sectionTitle(pdf, "Summary Statistics")
	statRows := make([][]string, len(stats))
	for i, s := range stats {
		statRows[i] = []string{s.Label, s.Value, s.ChangePercent, trendMarker(s.Trend)}
	}
	table(pdf, []string{"Metric", "Value", "Change", "Trend"}, []float64{60, 40, 40, 30}, statRows)
	pdf.Ln(10)

	// Daily performance
	sectionTitle(pdf, "Daily Performance")
	dayRows := make([][]string, len(buckets))
	for i, b := range buckets {
		dayRows[i] = []string{
			b.Label,
			strconv.Itoa(b.AvgFatigue),
			strconv.Itoa(b.TripCount),
			strconv.Itoa(b.AlertTotal),
		}
	}
	table(pdf, []string{"Date", "Fatigue Score", "Trips", "Alerts"}, []float64{50, 45, 35, 40}, dayRows)

	// Trips on their own page
	pdf.AddPage()
	sectionTitle(pdf, "Recent Trips")
	tripRows := make([][]string, len(trips))
	for i, t := range trips {
		tripRows[i] = []string{
			t.Date,
			t.DurationLabel(),
			t.DistanceLabel(),
			strconv.Itoa(t.AvgFatigue),
			strconv.Itoa(t.AlertCount),
		}
	}
	table(pdf, []string{"Date", "Duration", "Distance", "Avg Fatigue", "Alerts"}, []float64{40, 35, 35, 35, 25}, tripRows)

	// Assemble fully in memory so a sink failure never leaves a partial
	// artifact behind.
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to build pdf report: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to flush pdf report: %w", err)
	}
	return nil
}

// trendMarker maps a trend direction to its Trend-column marker. The core
// PDF fonts are cp1252, which has no arrow glyphs, so the marker stays
// ASCII.
func trendMarker(trend string) string {
	if trend == "up" {
		return "+"
	}
	return "-"
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, title)
	pdf.Ln(10)
}

// table renders a striped table with a filled header row, breaking to a
// new page automatically when rows overflow.
func table(pdf *fpdf.Fpdf, headers []string, widths []float64, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(accent[0], accent[1], accent[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(240, 244, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, cell := range row {
			pdf.CellFormat(widths[j], 7, cell, "", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

package commands

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"calmdrive/internal/export"
	"calmdrive/internal/report"
	"calmdrive/internal/store"
	"calmdrive/internal/trip"
)

var (
	exportFormat string
	exportFrom   string
	exportTo     string
	exportOut    string
	exportOpen   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate a driving report file (PDF or CSV)",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "pdf", "output format: pdf or csv")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "window start (yyyy-MM-dd, default 6 days ago)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "window end (yyyy-MM-dd, default today)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default driving-report-<today>.<ext>)")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "open the generated report")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "pdf" && exportFormat != "csv" {
		return fmt.Errorf("unknown format %q, expected pdf or csv", exportFormat)
	}

	now := time.Now()
	from := trip.Day(now).AddDate(0, 0, -6)
	to := trip.Day(now)

	var err error
	if exportFrom != "" {
		if from, err = time.Parse(trip.DateLayout, exportFrom); err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
	}
	if exportTo != "" {
		if to, err = time.Parse(trip.DateLayout, exportTo); err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
	}
	if from.After(to) {
		return fmt.Errorf("--from must not be after --to")
	}

	ctx := cmd.Context()

	var source report.TripSource
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("Trip store unavailable, exporting synthesized data")
		} else {
			defer pg.Close()
			source = pg
		}
	}

	reports := report.NewService(source, trip.NewSynthesizer(nil))
	snap := reports.Build(ctx, report.NewWindow(from, to))
	if snap.Synthetic {
		log.Info().Msg("Report built from synthesized trips")
	}

	// Assemble the whole artifact before touching the filesystem so a
	// failed build never leaves a partial file.
	var buf bytes.Buffer
	switch exportFormat {
	case "csv":
		err = export.WriteCSV(&buf, snap.Trips)
	case "pdf":
		err = export.WritePDF(&buf, snap.Trips, snap.Buckets, snap.Stats, now)
	}
	if err != nil {
		return err
	}

	path := exportOut
	if path == "" {
		path = export.Filename(exportFormat, now)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Info().Str("path", path).Int("trips", len(snap.Trips)).Msg("Report written")

	if exportOpen {
		if err := browser.OpenFile(path); err != nil {
			log.Warn().Err(err).Msg("Failed to open report")
		}
	}
	return nil
}

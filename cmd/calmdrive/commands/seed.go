package commands

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"calmdrive/internal/store"
	"calmdrive/internal/trip"
)

var (
	seedFrom  string
	seedTo    string
	seedValue int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the trip store with synthesized trips",
	Long: `Seed synthesizes a trip history for the given window and inserts it into
the Postgres trip table, so the dashboard has persisted data to work with.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFrom, "from", "", "window start (yyyy-MM-dd, default 29 days ago)")
	seedCmd.Flags().StringVar(&seedTo, "to", "", "window end (yyyy-MM-dd, default today)")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "RNG seed for reproducible data (default time-based)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("seed requires DATABASE_URL to be configured")
	}

	now := time.Now()
	from := trip.Day(now).AddDate(0, 0, -29)
	to := trip.Day(now)

	var err error
	if seedFrom != "" {
		if from, err = time.Parse(trip.DateLayout, seedFrom); err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
	}
	if seedTo != "" {
		if to, err = time.Parse(trip.DateLayout, seedTo); err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
	}
	if from.After(to) {
		return fmt.Errorf("--from must not be after --to")
	}

	ctx := cmd.Context()

	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	var rng trip.Rand
	if seedValue != 0 {
		rng = rand.New(rand.NewSource(seedValue))
	}
	trips := trip.NewSynthesizer(rng).Generate(from, to)

	if err := pg.InsertTrips(ctx, trips); err != nil {
		return err
	}

	log.Info().
		Int("trips", len(trips)).
		Str("from", from.Format(trip.DateLayout)).
		Str("to", to.Format(trip.DateLayout)).
		Msg("Trip store seeded")
	return nil
}

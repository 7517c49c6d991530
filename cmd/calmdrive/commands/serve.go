package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"calmdrive/internal/api"
	"calmdrive/internal/explain"
	"calmdrive/internal/report"
	"calmdrive/internal/store"
	"calmdrive/internal/trip"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Trip store is optional: without a DATABASE_URL every view is
	// synthesized, which keeps local development self-contained.
	var reader api.TripReader
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("Trip store unavailable, serving synthesized data only")
		} else {
			defer pg.Close()
			reader = pg
		}
	} else {
		log.Info().Msg("No DATABASE_URL configured, serving synthesized data only")
	}

	var cache explain.Cache
	if cfg.RedisAddr != "" {
		c, err := store.NewExplanationCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn().Err(err).Msg("Explanation cache unavailable, proceeding without it")
		} else {
			defer c.Close()
			cache = c
		}
	}

	var explainer explain.Client
	if cfg.Explain.APIKey != "" {
		explainer = explain.NewClient(cfg.Explain, cache)
	} else {
		log.Warn().Msg("No AI_GATEWAY_KEY configured, metric explanations disabled")
	}

	reports := report.NewService(reader, trip.NewSynthesizer(nil))
	server := api.NewServer(reports, reader, explainer)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(cfg.HTTPAddr)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down HTTP API")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

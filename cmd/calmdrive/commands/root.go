package commands

import (
	"calmdrive/internal/config"
	"calmdrive/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "calmdrive",
	Short: "CalmDrive is the backend for the driver-fatigue dashboard",
	Long: `The CalmDrive backend serves trip history, weekly fatigue reports, CSV/PDF
exports, AI metric explanations and a simulated live telemetry stream for the
driver wellness dashboard.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("CalmDrive starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Running the binary without a subcommand serves the API.
		return runServe(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

package commands

import (
	"os"

	"bloodsim/internal/config"
	"bloodsim/internal/ingest"
	"bloodsim/internal/logging"
	"bloodsim/internal/mcp"

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
	store   *ingest.Store
)

var rootCmd = &cobra.Command{
	Use:   "bloodsim",
	Short: "Blood-bag demand forecasting by Monte Carlo simulation",
	Long: `Bloodsim estimates future blood-bag demand per ABO group by discrete-event
Monte Carlo simulation driven by empirical frequency distributions loaded
from per-group Excel workbooks. By default it serves the distributions and
the simulation engine as MCP tools over stdio.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		store = ingest.NewStore(cfg.Workbooks)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("bloodsim starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		log.Info().Msg("MCP server starting stdio loop")
		server := mcp.NewServer(store, os.Stdin, os.Stdout)
		if err := server.Serve(); err != nil {
			log.Fatal().Err(err).Msg("MCP server failed")
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

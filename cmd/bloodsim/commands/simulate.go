package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"bloodsim/internal/simulation"
	"bloodsim/internal/stats"

	"github.com/spf13/cobra"
)

var (
	simPeriods int
	simSeed    int64
)

type simulateOutput struct {
	Seed    int64               `json:"seed"`
	Periods int                 `json:"periods"`
	Records []simulation.Record `json:"records"`
	Summary stats.Summary       `json:"summary"`
}

// resolvePeriods picks the explicit flag value when the flag was set and
// the configured default otherwise. An explicit non-positive count fails
// validation rather than falling back to the default.
func resolvePeriods(explicit bool, flagValue, fallback int) (int, error) {
	periods := fallback
	if explicit {
		periods = flagValue
	}
	if periods <= 0 {
		return 0, fmt.Errorf("periods must be positive, got %d", periods)
	}
	return periods, nil
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one simulation and print records and summary as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		periods, err := resolvePeriods(cmd.Flags().Changed("periods"), simPeriods, cfg.DefaultPeriods)
		if err != nil {
			return err
		}

		seed := simSeed
		if !cmd.Flags().Changed("seed") {
			seed = time.Now().UnixNano()
		}

		engine := simulation.NewSeededEngine(store.Tables(), seed)
		records, err := engine.Run(cmd.Context(), periods)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(simulateOutput{
			Seed:    seed,
			Periods: periods,
			Records: records,
			Summary: stats.Summarize(records),
		})
	},
}

func init() {
	simulateCmd.Flags().IntVarP(&simPeriods, "periods", "p", 0, "number of periods to simulate (default from DEFAULT_PERIODS)")
	simulateCmd.Flags().Int64VarP(&simSeed, "seed", "s", 0, "RNG seed for a reproducible run (default time-based)")
	rootCmd.AddCommand(simulateCmd)
}

// Command kingdomsim runs the kingdom-clicker settlement simulation.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	tuningPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "kingdomsim",
	Short: "Kingdom Clicker — incremental settlement simulation",
	Long: `kingdomsim grows a medieval settlement one tick at a time: peasants
hunt and fell trees, mills and smelters refine, workshops craft, and
rangers scout the frontier for new build sites.

"run" serves a live world over the HTTP API; "headless" plays a scripted
batch run and prints a report.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&tuningPath, "tuning", "configs/tuning.yaml", "tuning overrides (YAML, optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(headlessCmd)
	rootCmd.AddCommand(inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

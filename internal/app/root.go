package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	logLevel   string

	// RootCmd is the root command for spendscope
	RootCmd = &cobra.Command{
		Use:   "spendscope",
		Short: "Procurement spend analysis with savings and risk insights",
		Long: `spendscope analyzes procurement transactions and reports savings
opportunities, compliance risk and contract renewals.

Every figure is computed locally from the records you load. An optional
chat-completions upstream can word the findings as commentary, but it never
changes the numbers.

Quick Start:
  1. spendscope sample > spend.csv
  2. spendscope analyze spend.csv
  3. spendscope trends

Features:
  • Duplicate vendor detection with fuzzy name matching
  • Off-contract, price anomaly, volume and tail spend detectors
  • Monthly trend history
  • Contract renewal alerts with dismiss and snooze
  • HTTP API and inbox watcher for unattended runs

Examples:
  # Analyze a spreadsheet export
  spendscope analyze export.xlsx

  # Run a single detector
  spendscope analyze export.csv --mode duplicateVendors

  # Serve the HTTP API
  spendscope serve --port 8847

  # Analyze every file dropped into a directory
  spendscope watch ~/spend/inbox`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "spendscope: procurement spend analysis")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'spendscope sample > spend.csv' for demo data.")
			fmt.Fprintln(out, "Run 'spendscope analyze <file>' to analyze it.")
			fmt.Fprintln(out, "Run 'spendscope --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/spendscope/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.spendscope/spendscope.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

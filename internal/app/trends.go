package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/spendscope/internal/output"
	"github.com/blackwell-systems/spendscope/internal/trends"
)

var (
	trendsMonths int
	trendsJSON   bool
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show how savings and compliance move month over month",
	Long: `Display the recorded monthly snapshots, oldest first.

Each full analysis replaces the snapshot of the month it ran in, and only
the newest 12 months are kept. With two or more months the summary compares
the latest month to the one before it.`,
	Example: `  spendscope trends
  spendscope trends --months 6
  spendscope trends --json`,
	Args: cobra.NoArgs,
	RunE: runTrends,
}

func init() {
	trendsCmd.Flags().IntVar(&trendsMonths, "months", trends.MaxSnapshots, "number of months to show")
	trendsCmd.Flags().BoolVar(&trendsJSON, "json", false, "print the report as JSON")

	RootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, args []string) error {
	if trendsMonths <= 0 {
		return fmt.Errorf("invalid months: %d (must be positive)", trendsMonths)
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	st, err := rt.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := rt.trendManager(st).Get(trendsMonths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if trendsJSON {
		return writeJSON(out, report)
	}
	fmt.Fprint(out, output.RenderTrendTable(report))
	return nil
}

package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/spendscope/internal/ingest"
)

var sampleFormat string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the built-in demo dataset",
	Long: `Print twelve demo procurement records covering duplicate vendors,
off-contract spend, volume opportunities and uncategorized records.`,
	Example: `  spendscope sample > spend.csv
  spendscope sample --format json > spend.json`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().StringVar(&sampleFormat, "format", string(ingest.FormatCSV), "output format: csv or json")

	RootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	records := ingest.SampleRecords()
	out := cmd.OutOrStdout()

	switch ingest.Format(sampleFormat) {
	case ingest.FormatCSV:
		return ingest.WriteCSV(out, records)
	case ingest.FormatJSON:
		return ingest.WriteJSON(out, records)
	default:
		return fmt.Errorf("invalid format %q (must be csv or json)", sampleFormat)
	}
}

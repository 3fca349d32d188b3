package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/spendscope/internal/output"
)

var categorizeJSON bool

var categorizeCmd = &cobra.Command{
	Use:   "categorize <file>",
	Short: "Break spend down by category",
	Long: `Classify every record into a category and report spend, vendor count and
share per category.

Records without a category are classified by keywords in the vendor name.
Category consolidation and transaction efficiency insights are listed after
the breakdown.`,
	Example: `  spendscope categorize spend.csv
  spendscope categorize spend.xlsx --json`,
	Args: cobra.ExactArgs(1),
	RunE: runCategorize,
}

func init() {
	categorizeCmd.Flags().BoolVar(&categorizeJSON, "json", false, "print the result as JSON")

	RootCmd.AddCommand(categorizeCmd)
}

func runCategorize(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	records, err := readRecords(args[0], rt.ingest)
	if err != nil {
		return err
	}

	c := rt.analyzer.CategorizeSpend(records)

	out := cmd.OutOrStdout()
	if categorizeJSON {
		return writeJSON(out, c)
	}

	fmt.Fprint(out, output.RenderCategoryTable(c))
	return nil
}

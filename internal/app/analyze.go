package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/output"
)

var (
	analyzeMode     string
	analyzeJSON     bool
	analyzeVerbose  bool
	analyzeNoRecord bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a procurement file for savings and risk",
	Long: `Analyze procurement records from a CSV, XLSX or JSON file.

A full analysis runs every detector, ranks the findings by savings and
builds an action plan. It is recorded as this month's trend snapshot unless
--no-record is given.

Modes:
  full                   All detectors plus the action plan (default)
  duplicateVendors       Near-identical vendor names
  offContractSpend       Spend outside the dominant vendor per category
  priceAnomalies         Statistical outliers per category
  contractOpportunities  Vendors large enough to negotiate volume pricing
  tailSpend              Many small vendors in aggregate

Single-detector modes are never recorded as trends.`,
	Example: `  # Full analysis with the action plan
  spendscope analyze spend.csv

  # Show evidence and next steps for every insight
  spendscope analyze spend.xlsx --verbose

  # One detector, machine-readable
  spendscope analyze spend.json --mode tailSpend --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", string(analyzer.ModeFull), "analysis mode")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "show evidence and next steps")
	analyzeCmd.Flags().BoolVar(&analyzeNoRecord, "no-record", false, "do not record a trend snapshot")

	RootCmd.AddCommand(analyzeCmd)
}

func parseMode(s string) (analyzer.Mode, error) {
	for _, m := range analyzer.Modes() {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	names := make([]string, 0, len(analyzer.Modes()))
	for _, m := range analyzer.Modes() {
		names = append(names, string(m))
	}
	return "", fmt.Errorf("invalid mode %q (must be one of: %s)", s, strings.Join(names, ", "))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(analyzeMode)
	if err != nil {
		return err
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	records, err := readRecords(args[0], rt.ingest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if analyzer.IsDetectorMode(mode) {
		res, err := rt.analyzer.Detect(records, mode)
		if err != nil {
			return err
		}
		if analyzeJSON {
			return writeJSON(out, res)
		}
		fmt.Fprintf(out, "%s · Savings: %s · Records: %d\n\n",
			res.AnalysisType, analyzer.FormatMoney(res.Summary.TotalSavings), res.Summary.RecordsAnalyzed)
		fmt.Fprint(out, renderInsights(res.Insights))
		return nil
	}

	result := rt.analyzer.Analyze(records)

	if !analyzeNoRecord {
		st, err := rt.openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if _, err := recordTrend(rt, st, result, records); err != nil {
			return err
		}
	}

	if analyzeJSON {
		return writeJSON(out, result)
	}

	fmt.Fprint(out, output.RenderSummary(result))
	fmt.Fprintln(out)
	fmt.Fprint(out, renderInsights(result.Insights))
	if len(result.Insights) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, output.RenderActionPlan(result.ActionPlan))
	}
	return nil
}

func renderInsights(insights []analyzer.Insight) string {
	if analyzeVerbose {
		return output.RenderInsightDetail(insights)
	}
	return output.RenderInsightTable(insights)
}

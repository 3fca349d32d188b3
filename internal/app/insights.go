package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/spendscope/internal/commentary"
	"github.com/blackwell-systems/spendscope/internal/output"
)

var insightsCards bool

var insightsCmd = &cobra.Command{
	Use:   "insights <file>",
	Short: "Analyze a file and ask the commentary upstream to summarize it",
	Long: `Run a full analysis and ask the configured chat-completions upstream for a
narrative summary.

The upstream is set with commentary.base_url in the config file or the
SPENDSCOPE_COMMENTARY_BASE_URL environment variable. The API key is read
from the variable named by commentary.api_key_env.

When the upstream is not configured or fails, the local analysis is shown
with a fallback note. Insights runs are not recorded as trends.`,
	Example: `  spendscope insights spend.csv

  # Structured insight cards as JSON
  spendscope insights spend.csv --cards`,
	Args: cobra.ExactArgs(1),
	RunE: runInsights,
}

func init() {
	insightsCmd.Flags().BoolVar(&insightsCards, "cards", false, "print insight cards as JSON")

	RootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	records, err := readRecords(args[0], rt.ingest)
	if err != nil {
		return err
	}

	result := rt.analyzer.Analyze(records)
	client := rt.commentary()
	out := cmd.OutOrStdout()

	ctx, cancel := context.WithTimeout(cmd.Context(), rt.cfg.Commentary.Timeout)
	defer cancel()

	spinner := output.NewSpinner("Waiting for commentary").WithTimeout(rt.cfg.Commentary.Timeout)
	spinner.SetWriter(cmd.ErrOrStderr())
	if client.Configured() {
		spinner.Start()
	}

	if insightsCards {
		cards, err := client.InsightCards(ctx, result)
		spinner.Stop()
		if err != nil {
			rt.logger.Warn("insight cards unavailable", zap.Error(err))
			cards = commentary.FallbackCards(result)
			cards.ParseError = "AI service unavailable, using structured analysis"
		}
		return writeJSON(out, cards)
	}

	text, err := client.Summarize(ctx, result)
	spinner.Stop()
	if err != nil {
		rt.logger.Debug("commentary unavailable", zap.Error(err))
		text = commentary.FallbackSummary
	}

	fmt.Fprint(out, output.RenderSummary(result))
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderInsightTable(result.Insights))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commentary")
	fmt.Fprintln(out, text)
	return nil
}

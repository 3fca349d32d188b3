package output_test

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/ingest"
	"github.com/blackwell-systems/spendscope/internal/output"
)

// Example showing how to render the insights of a full analysis
func ExampleRenderInsightTable() {
	result := analyzer.NewDefault().Analyze(ingest.SampleRecords())

	fmt.Print(output.RenderSummary(result))
	fmt.Print(output.RenderInsightTable(result.Insights))
}

// Example showing how to render a spend breakdown
func ExampleRenderCategoryTable() {
	cat := analyzer.NewDefault().CategorizeSpend(ingest.SampleRecords())
	fmt.Print(output.RenderCategoryTable(cat))
}

// Example showing how to use a spinner
func ExampleSpinner() {
	spinner := output.NewSpinner("Asking commentary service").WithTimeout(60 * time.Second)
	spinner.Start()

	// Wait on the slow call...
	time.Sleep(2 * time.Second)

	spinner.StopWithMessage("Commentary ready")
}

// Package output renders analysis results for the terminal.
//
// This package includes:
//   - Tables for insights, categories, trend history and contract alerts
//   - A detailed per-insight view with evidence and next steps
//   - A spinner for waiting on the commentary service
//
// Tables use box-drawing rules and ANSI colors. Colors are dropped when
// stdout is not a terminal or NO_COLOR is set.
package output

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/spendscope/internal/alerts"
	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/trends"
)

// ANSI color codes for priority display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// padColor pads text to width before coloring so columns stay aligned.
func padColor(color, text string, width int) string {
	padded := text
	if n := utf8.RuneCountInString(text); n < width {
		padded = text + strings.Repeat(" ", width-n)
	}
	return colorize(color, padded)
}

func rule(width int) string {
	return strings.Repeat("─", width) + "\n"
}

// priorityColor returns the ANSI color for an insight or alert priority.
func priorityColor(p analyzer.Priority) string {
	switch p {
	case analyzer.PriorityHigh:
		return colorRed
	case analyzer.PriorityMedium:
		return colorYellow
	case analyzer.PriorityLow:
		return colorGreen
	default:
		return colorGray
	}
}

// impactLabel shows savings as-is and risk amounts with a "risk" suffix.
func impactLabel(ins *analyzer.Insight) string {
	if ins.Savings != nil {
		return analyzer.FormatMoney(*ins.Savings)
	}
	return analyzer.FormatMoney(ins.RiskValue()) + " risk"
}

// RenderSummary renders the one-line batch summary followed by any data
// quality issues.
// Format: "Savings: $4,513.6 · Risk: $24 · Records: 12 · Confidence: 75%"
func RenderSummary(result *analyzer.AnalysisResult) string {
	var sb strings.Builder

	s := result.Summary
	sb.WriteString(fmt.Sprintf("%s: %s · %s: %s · Records: %d · Confidence: %s\n",
		colorize(colorGreen, "Savings"), analyzer.FormatMoney(s.TotalSavings),
		colorize(colorRed, "Risk"), analyzer.FormatMoney(s.TotalRisk),
		s.RecordsAnalyzed,
		analyzer.FormatPercent(s.Confidence)))

	if len(result.DataQuality) > 0 {
		sb.WriteString(colorize(colorYellow, "Data quality:"))
		sb.WriteString("\n")
		for _, issue := range result.DataQuality {
			sb.WriteString("  - " + issue + "\n")
		}
	}
	return sb.String()
}

// RenderInsightTable renders insights in the order given.
func RenderInsightTable(insights []analyzer.Insight) string {
	if len(insights) == 0 {
		return "No insights found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-3s %-8s %-24s %-38s %14s %s\n",
		"#", "Priority", "Type", "Title", "Impact", "Conf"))
	sb.WriteString(rule(96))

	for i := range insights {
		ins := &insights[i]
		sb.WriteString(fmt.Sprintf("%-3d %s %-24s %-38s %14s %s\n",
			i+1,
			padColor(priorityColor(ins.Priority), string(ins.Priority), 8),
			string(ins.Type),
			truncate(ins.Title, 38),
			impactLabel(ins),
			analyzer.FormatPercent(ins.Confidence)))
	}

	return sb.String()
}

// RenderInsightDetail renders every insight with its evidence and next step.
func RenderInsightDetail(insights []analyzer.Insight) string {
	if len(insights) == 0 {
		return "No insights to display.\n"
	}

	var sb strings.Builder

	for i := range insights {
		ins := &insights[i]
		if i > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, ins.Title))
		sb.WriteString(fmt.Sprintf("   Priority:   %s\n", colorize(priorityColor(ins.Priority), string(ins.Priority))))
		sb.WriteString(fmt.Sprintf("   Impact:     %s\n", impactLabel(ins)))
		sb.WriteString(fmt.Sprintf("   Confidence: %s\n", analyzer.FormatPercent(ins.Confidence)))
		sb.WriteString("   " + ins.Description + "\n")

		sb.WriteString("\n   Evidence:\n")
		for _, e := range ins.Evidence {
			sb.WriteString("     - " + e + "\n")
		}
		sb.WriteString("\n   Next step: " + ins.NextStep + "\n")
		sb.WriteString(rule(72))
	}

	return sb.String()
}

// RenderActionPlan renders the executive summary, priority actions and
// quick wins.
func RenderActionPlan(plan analyzer.ActionPlan) string {
	var sb strings.Builder

	sb.WriteString(plan.ExecutiveSummary + "\n")

	if len(plan.PriorityActions) > 0 {
		sb.WriteString("\nPriority actions:\n")
		for _, a := range plan.PriorityActions {
			sb.WriteString(fmt.Sprintf("  %s %s (%s, %s, %s)\n",
				colorize(colorRed, "!"), a.Action,
				analyzer.FormatMoney(a.Impact), a.Timeline, a.Owner))
		}
	}

	if len(plan.QuickWins) > 0 {
		sb.WriteString("\nQuick wins:\n")
		for i := range plan.QuickWins {
			sb.WriteString(fmt.Sprintf("  %s %s\n", colorize(colorGreen, "✓"), plan.QuickWins[i].Title))
		}
	}

	return sb.String()
}

// RenderCategoryTable renders the per-category breakdown and its insights.
func RenderCategoryTable(c *analyzer.Categorization) string {
	if len(c.CategoryBreakdown) == 0 {
		return "No categories found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-24s %14s %7s %6s %8s %12s\n",
		"Category", "Spend", "Share", "Txns", "Vendors", "Avg Txn"))
	sb.WriteString(rule(76))

	for _, b := range c.CategoryBreakdown {
		sb.WriteString(fmt.Sprintf("%-24s %14s %6.1f%% %6d %8d %12s\n",
			truncate(b.Name, 24),
			analyzer.FormatMoney(b.TotalSpend),
			b.Percentage,
			b.TransactionCount,
			b.VendorCount,
			analyzer.FormatMoney(b.AvgTransactionSize)))
	}

	sb.WriteString(rule(76))
	sb.WriteString(fmt.Sprintf("%d categories · total %s", c.Summary.TotalCategories,
		analyzer.FormatMoney(c.Summary.TotalSpend)))
	if c.Summary.TopCategory != "" {
		sb.WriteString(fmt.Sprintf(" · top: %s", c.Summary.TopCategory))
	}
	sb.WriteString("\n")

	if len(c.Insights) > 0 {
		sb.WriteString("\n")
		sb.WriteString(RenderInsightTable(c.Insights))
	}

	return sb.String()
}

// RenderTrendTable renders snapshot history, oldest first, and the summary
// when one exists.
func RenderTrendTable(r *trends.Report) string {
	if len(r.Trends) == 0 {
		return "No trend data recorded yet.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-9s %14s %9s %12s %11s %8s %8s\n",
		"Month", "Savings", "Insights", "Off-contract", "Duplicates", "Alerts", "Records"))
	sb.WriteString(rule(78))

	for _, s := range r.Trends {
		m := s.Metrics
		sb.WriteString(fmt.Sprintf("%-9s %14s %9d %11.1f%% %11d %8d %8d\n",
			fmt.Sprintf("%s %d", s.Month, s.Year),
			analyzer.FormatMoney(m.PotentialSavings),
			m.InsightsFound,
			m.NonCompliantSpend,
			m.DuplicateVendors,
			m.ContractAlerts,
			s.RecordsProcessed))
	}

	if sum := r.Summary; sum != nil {
		sb.WriteString(rule(78))
		sb.WriteString(fmt.Sprintf("Total identified: %s · Savings %s · Insights %s · Best: %s %d\n",
			analyzer.FormatMoney(sum.TotalSavingsIdentified),
			formatTrend(sum.SavingsTrend),
			formatTrend(sum.InsightsTrend),
			sum.BestMonth.Month, sum.BestMonth.Year))
		sb.WriteString(fmt.Sprintf("Compliance improvement: %.1f pts · Avg insights/month: %d\n",
			sum.ComplianceImprovement, sum.AvgMonthlyInsights))
	}

	return sb.String()
}

// formatTrend returns an arrow and label for a trend direction.
func formatTrend(d trends.Direction) string {
	switch d {
	case trends.Increasing:
		return colorize(colorGreen, "↑ increasing")
	case trends.Decreasing:
		return colorize(colorRed, "↓ decreasing")
	case trends.Stable:
		return "→ stable"
	default:
		return "—"
	}
}

// RenderAlertTable renders contract renewal alerts in the order given.
func RenderAlertTable(list []alerts.Alert) string {
	if len(list) == 0 {
		return "No active contract alerts.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-36s %-8s %-24s %-18s %-11s %-12s %12s\n",
		"ID", "Priority", "Vendor", "Type", "Renewal", "Due", "Value"))
	sb.WriteString(rule(126))

	for _, a := range list {
		sb.WriteString(fmt.Sprintf("%-36s %s %-24s %-18s %-11s %-12s %12s\n",
			a.ID,
			padColor(priorityColor(a.Priority), string(a.Priority), 8),
			truncate(a.Vendor, 24),
			truncate(a.ContractType, 18),
			a.RenewalDate,
			formatDue(a.DaysUntilRenewal),
			analyzer.FormatMoney(a.AnnualValue)))
	}

	c := alerts.CountByPriority(list)
	sb.WriteString(rule(126))
	sb.WriteString(fmt.Sprintf("%s: %d · %s: %d · %s: %d\n",
		colorize(colorRed, "HIGH"), c.High,
		colorize(colorYellow, "MEDIUM"), c.Medium,
		colorize(colorGreen, "LOW"), c.Low))

	return sb.String()
}

// formatDue describes a day offset relative to today.
func formatDue(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "in 1 day"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == -1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

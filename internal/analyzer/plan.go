package analyzer

import "fmt"

const (
	actionTimeline = "30-60 days"
	actionOwner    = "Procurement Team"
	maxQuickWins   = 3
)

// overallConfidence is the mean insight confidence rounded to two decimals,
// 0 when there are no insights.
func overallConfidence(insights []Insight) float64 {
	if len(insights) == 0 {
		return 0
	}
	var sum float64
	for i := range insights {
		sum += insights[i].Confidence
	}
	return round(sum/float64(len(insights)), 2)
}

// buildActionPlan derives the action plan from already sorted insights.
func buildActionPlan(insights []Insight) ActionPlan {
	var totalSavings float64
	for i := range insights {
		totalSavings += insights[i].SavingsValue()
	}

	actions := make([]PriorityAction, 0)
	for i := range insights {
		if insights[i].Priority != PriorityHigh {
			continue
		}
		actions = append(actions, PriorityAction{
			Action:   insights[i].NextStep,
			Impact:   insights[i].Impact(),
			Timeline: actionTimeline,
			Owner:    actionOwner,
		})
	}

	quickWins := make([]Insight, 0, maxQuickWins)
	for i := range insights {
		if len(quickWins) == maxQuickWins {
			break
		}
		switch insights[i].Type {
		case TypeDuplicateVendors, TypePriceAnomaly:
			quickWins = append(quickWins, insights[i])
		}
	}

	return ActionPlan{
		ExecutiveSummary: fmt.Sprintf("Analysis identified %s in potential savings across %d opportunities",
			FormatMoney(totalSavings), len(insights)),
		PriorityActions: actions,
		QuickWins:       quickWins,
		CSVExportReady:  true,
	}
}

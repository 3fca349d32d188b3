package analyzer

import (
	"fmt"
	"strings"
)

// DetectDuplicateVendors groups records by normalized vendor name and reports
// every group spelled more than one way. Groups are reported in the order
// their first record appears.
func (a *Analyzer) DetectDuplicateVendors(records []Record) []Insight {
	index := make(map[string]int)
	var groups [][]Record
	for _, r := range records {
		key := NormalizeVendorName(r.Vendor)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}

	var insights []Insight
	for _, group := range groups {
		names := uniqueVendors(group)
		if len(names) <= 1 {
			continue
		}

		var totalSpend float64
		for _, r := range group {
			totalSpend += r.Amount
		}
		savings := totalSpend * a.bench.DuplicateVendorSavings

		priority := PriorityMedium
		if savings > a.bench.DuplicateHighSavings {
			priority = PriorityHigh
		}

		insights = append(insights, Insight{
			Type:        TypeDuplicateVendors,
			Title:       "Duplicate Vendor: " + names[0],
			Description: fmt.Sprintf("Found %d variations of the same vendor", len(names)),
			Confidence:  duplicateConfidence(names),
			Priority:    priority,
			Evidence: []string{
				fmt.Sprintf("%d name variations: %s", len(names), strings.Join(names, ", ")),
				"Total spend: " + FormatMoney(totalSpend),
				fmt.Sprintf("Potential savings: %s (%s consolidation rate)",
					FormatMoney(savings), FormatPercent(a.bench.DuplicateVendorSavings)),
			},
			NextStep:    "Consolidate to single vendor master record",
			Savings:     floatPtr(savings),
			VendorNames: names,
			TotalSpend:  totalSpend,
			Records:     len(group),
		})
	}
	return insights
}

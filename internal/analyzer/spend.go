package analyzer

import (
	"fmt"
	"sort"
)

// preferredVendors returns the vendors that, taken largest first, account for
// PreferredSpendShare of total spend. A vendor is added while the running
// total is still strictly below the threshold, so the vendor that reaches the
// threshold exactly is included.
func (a *Analyzer) preferredVendors(groups []vendorAggregate) map[string]bool {
	sorted := make([]vendorAggregate, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].spend > sorted[j].spend
	})

	threshold := totalVendorSpend(groups) * a.bench.PreferredSpendShare
	preferred := make(map[string]bool)
	var cumulative float64
	for _, g := range sorted {
		if cumulative < threshold {
			preferred[g.vendor] = true
			cumulative += g.spend
		}
	}
	return preferred
}

// DetectOffContractSpend reports spend with vendors outside the preferred
// set. It emits at most one insight.
func (a *Analyzer) DetectOffContractSpend(records []Record) []Insight {
	if len(records) == 0 {
		return nil
	}
	preferred := a.preferredVendors(groupByVendor(records))

	var off []Record
	for _, r := range records {
		if !preferred[r.Vendor] {
			off = append(off, r)
		}
	}
	if len(off) == 0 {
		return nil
	}

	var offSpend float64
	for _, r := range off {
		offSpend += r.Amount
	}
	penalty := offSpend * a.bench.OffContractPenalty

	priority := PriorityMedium
	if penalty > a.bench.OffContractHighRisk {
		priority = PriorityHigh
	}

	return []Insight{{
		Type:        TypeOffContractSpend,
		Title:       "Off-Contract Spending Detected",
		Description: fmt.Sprintf("%d transactions outside preferred vendor network", len(off)),
		Confidence:  a.bench.OffContractConfidence,
		Priority:    priority,
		Evidence: []string{
			fmt.Sprintf("%d off-contract transactions", len(off)),
			FormatMoney(offSpend) + " spent outside preferred vendors",
			fmt.Sprintf("Estimated %s cost premium = %s",
				FormatPercent(a.bench.OffContractPenalty), FormatMoney(penalty)),
		},
		NextStep:         "Review vendor selection criteria and contract coverage",
		RiskAmount:       floatPtr(penalty),
		OffContractSpend: offSpend,
		AffectedVendors:  uniqueVendors(off),
		TransactionCount: len(off),
	}}
}

// DetectVolumeOpportunities reports every vendor whose total spend exceeds
// the volume discount threshold.
func (a *Analyzer) DetectVolumeOpportunities(records []Record) []Insight {
	var insights []Insight
	for _, g := range groupByVendor(records) {
		if g.spend <= a.bench.VolumeDiscountThreshold {
			continue
		}
		savings := g.spend * a.bench.VolumeDiscountRate

		priority := PriorityMedium
		if savings > a.bench.VolumeHighSavings {
			priority = PriorityHigh
		}

		insights = append(insights, Insight{
			Type:        TypeVolumeOpportunity,
			Title:       "Volume Discount Opportunity: " + g.vendor,
			Description: "High spend volume qualifies for negotiated discounts",
			Confidence:  a.bench.VolumeConfidence,
			Priority:    priority,
			Evidence: []string{
				"Annual spend: " + FormatMoney(g.spend),
				fmt.Sprintf("%d transactions", g.count),
				fmt.Sprintf("Potential %s volume discount = %s",
					FormatPercent(a.bench.VolumeDiscountRate), FormatMoney(savings)),
			},
			NextStep:         "Negotiate volume-based pricing with this vendor",
			Savings:          floatPtr(savings),
			Vendor:           g.vendor,
			AnnualSpend:      g.spend,
			TransactionCount: g.count,
		})
	}
	return insights
}

// DetectTailSpend reports vendors that are individually small (below
// TailSpendShare of total spend) but transact repeatedly. All such vendors
// are folded into a single insight.
func (a *Analyzer) DetectTailSpend(records []Record) []Insight {
	groups := groupByVendor(records)
	cutoff := totalVendorSpend(groups) * a.bench.TailSpendShare

	var tail []vendorAggregate
	for _, g := range groups {
		if g.spend < cutoff && g.count > a.bench.TailMinTransactions {
			tail = append(tail, g)
		}
	}
	if len(tail) == 0 {
		return nil
	}

	var tailSpend float64
	names := make([]string, 0, len(tail))
	for _, g := range tail {
		tailSpend += g.spend
		names = append(names, g.vendor)
	}
	savings := tailSpend * a.bench.TailConsolidationRate

	priority := PriorityLow
	if savings > a.bench.TailMediumSavings {
		priority = PriorityMedium
	}

	return []Insight{{
		Type:        TypeTailSpend,
		Title:       "Tail Spend Consolidation Opportunity",
		Description: fmt.Sprintf("%d low-volume vendors creating administrative overhead", len(tail)),
		Confidence:  a.bench.TailConfidence,
		Priority:    priority,
		Evidence: []string{
			fmt.Sprintf("%d vendors with minimal spend", len(tail)),
			"Total tail spend: " + FormatMoney(tailSpend),
			"Consolidation savings: " + FormatMoney(savings),
		},
		NextStep:        "Consolidate tail spend with preferred vendors",
		Savings:         floatPtr(savings),
		TailVendorCount: len(tail),
		TailSpend:       tailSpend,
		TailVendors:     names,
	}}
}

package analyzer

import (
	"fmt"
	"sort"
)

// quartiles summarizes a sorted sample by index position: the median is the
// element at n/2, Q1 at floor(0.25n) and Q3 at floor(0.75n).
type quartiles struct {
	median float64
	q1     float64
	q3     float64
}

func (q quartiles) iqr() float64 {
	return q.q3 - q.q1
}

func computeQuartiles(sorted []float64) quartiles {
	n := len(sorted)
	return quartiles{
		median: sorted[n/2],
		q1:     sorted[int(float64(n)*0.25)],
		q3:     sorted[int(float64(n)*0.75)],
	}
}

// DetectPriceAnomalies flags, per category, transactions outside the Tukey
// fence (Q1 - k*IQR, Q3 + k*IQR). A category is reported only when its
// outliers overspend relative to the category median. Categories with fewer
// than AnomalyMinRecords records are skipped.
func (a *Analyzer) DetectPriceAnomalies(records []Record) []Insight {
	index := make(map[string]int)
	var categories []string
	var groups [][]Record
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(groups)
			index[r.Category] = i
			categories = append(categories, r.Category)
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}

	var insights []Insight
	for gi, group := range groups {
		if len(group) < a.bench.AnomalyMinRecords {
			continue
		}
		category := categories[gi]

		amounts := make([]float64, len(group))
		for i, r := range group {
			amounts[i] = r.Amount
		}
		sort.Float64s(amounts)
		q := computeQuartiles(amounts)

		upper := q.q3 + a.bench.AnomalyFence*q.iqr()
		lower := q.q1 - a.bench.AnomalyFence*q.iqr()

		var outliers []Record
		for _, r := range group {
			if r.Amount > upper || r.Amount < lower {
				outliers = append(outliers, r)
			}
		}
		if len(outliers) == 0 {
			continue
		}

		var outlierSpend float64
		for _, r := range outliers {
			outlierSpend += r.Amount
		}
		excess := outlierSpend - float64(len(outliers))*q.median
		if excess <= 0 {
			continue
		}

		priority := PriorityMedium
		if excess > a.bench.AnomalyHighExcess {
			priority = PriorityHigh
		}

		insights = append(insights, Insight{
			Type:        TypePriceAnomaly,
			Title:       "Price Anomaly in " + category,
			Description: fmt.Sprintf("%d transactions significantly above market rate", len(outliers)),
			Confidence:  a.bench.AnomalyConfidence,
			Priority:    priority,
			Evidence: []string{
				fmt.Sprintf("%d outlier transactions in %s", len(outliers), category),
				"Median price: " + FormatMoney(q.median),
				"Excess spend: " + FormatMoney(excess),
			},
			NextStep:       "Review pricing with these vendors and negotiate better rates",
			Savings:        floatPtr(excess),
			Category:       category,
			OutlierCount:   len(outliers),
			ExcessSpend:    excess,
			MedianPrice:    q.median,
			OutlierVendors: uniqueVendors(outliers),
		})
	}
	return insights
}

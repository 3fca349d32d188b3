package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ClassifyRecord picks a category for a record that has none: the first rule
// with a keyword contained in "vendor po_number" (case-insensitive), else an
// amount band.
func (a *Analyzer) ClassifyRecord(r Record) string {
	text := strings.ToLower(r.Vendor + " " + r.PONumber)
	for _, rule := range a.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}

	switch {
	case r.Amount > a.bench.MajorPurchaseAmount:
		return CategoryMajor
	case r.Amount < a.bench.SmallPurchaseAmount:
		return CategorySmall
	}
	return CategoryGeneral
}

// NormalizeCategoryName title-cases each space separated word and maps known
// synonyms onto their canonical category.
func (a *Analyzer) NormalizeCategoryName(category string) string {
	normalized := titleCase(category)
	if canonical, ok := a.aliases[normalized]; ok {
		return canonical
	}
	return normalized
}

func titleCase(s string) string {
	words := strings.Split(strings.TrimSpace(s), " ")
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError && size == 0 {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// categoryStats accumulates one final category.
type categoryStats struct {
	name    string
	spend   float64
	count   int
	vendors []string
	seen    map[string]bool
}

func (c *categoryStats) average() float64 {
	if c.count == 0 {
		return 0
	}
	return c.spend / float64(c.count)
}

// CategorizeSpend assigns every record a final category, aggregates spend per
// category and derives consolidation and transaction-efficiency insights.
func (a *Analyzer) CategorizeSpend(records []Record) *Categorization {
	index := make(map[string]int)
	var cats []*categoryStats

	for _, r := range records {
		category := r.Category
		if strings.TrimSpace(category) == "" || category == CategoryUncategorized {
			category = a.ClassifyRecord(r)
		}
		category = a.NormalizeCategoryName(category)

		i, ok := index[category]
		if !ok {
			i = len(cats)
			index[category] = i
			cats = append(cats, &categoryStats{name: category, seen: make(map[string]bool)})
		}
		c := cats[i]
		c.spend += r.Amount
		c.count++
		if !c.seen[r.Vendor] {
			c.seen[r.Vendor] = true
			c.vendors = append(c.vendors, r.Vendor)
		}
	}

	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].spend > cats[j].spend
	})

	var totalSpend float64
	for _, c := range cats {
		totalSpend += c.spend
	}

	insights := make([]Insight, 0)
	for _, c := range cats {
		if ins, ok := a.consolidationInsight(c); ok {
			insights = append(insights, ins)
		}
	}
	for _, c := range cats {
		if ins, ok := a.efficiencyInsight(c); ok {
			insights = append(insights, ins)
		}
	}

	breakdown := make([]CategoryBreakdown, 0, len(cats))
	for _, c := range cats {
		var pct float64
		if totalSpend != 0 {
			pct = round(c.spend/totalSpend*100, 1)
		}
		breakdown = append(breakdown, CategoryBreakdown{
			Name:               c.name,
			TotalSpend:         c.spend,
			Percentage:         pct,
			TransactionCount:   c.count,
			VendorCount:        len(c.vendors),
			AvgTransactionSize: c.average(),
		})
	}

	summary := CategorySummary{
		TotalCategories: len(cats),
		TotalSpend:      totalSpend,
	}
	if len(cats) > 0 {
		summary.TopCategory = cats[0].name
		summary.TopCategorySpend = cats[0].spend
	}

	return &Categorization{
		Insights:          insights,
		CategoryBreakdown: breakdown,
		Summary:           summary,
	}
}

func (a *Analyzer) consolidationInsight(c *categoryStats) (Insight, bool) {
	vendorCount := len(c.vendors)
	if vendorCount <= a.bench.ConsolidationMinVendors || c.spend <= a.bench.ConsolidationMinSpend {
		return Insight{}, false
	}
	savings := c.spend * a.bench.ConsolidationRate

	priority := PriorityMedium
	if savings > a.bench.ConsolidationHighSavings {
		priority = PriorityHigh
	}

	return Insight{
		Type:        TypeCategoryConsolidation,
		Title:       c.name + " Vendor Consolidation",
		Description: fmt.Sprintf("%d vendors in %s category", vendorCount, c.name),
		Confidence:  a.bench.ConsolidationConfidence,
		Priority:    priority,
		Evidence: []string{
			fmt.Sprintf("%d vendors in %s", vendorCount, c.name),
			"Total category spend: " + FormatMoney(c.spend),
			"Average transaction: " + FormatMoney(c.average()),
			fmt.Sprintf("Potential %s consolidation savings: %s",
				FormatPercent(a.bench.ConsolidationRate), FormatMoney(savings)),
		},
		NextStep:    fmt.Sprintf("Consolidate %s vendors to 2-3 preferred suppliers", c.name),
		Savings:     floatPtr(savings),
		Category:    c.name,
		VendorCount: vendorCount,
		TotalSpend:  c.spend,
		Vendors:     c.vendors,
	}, true
}

// efficiencyInsight reports the administrative cost of many small
// transactions. The cost is carried as a risk amount.
func (a *Analyzer) efficiencyInsight(c *categoryStats) (Insight, bool) {
	avg := c.average()
	if c.count <= a.bench.EfficiencyMinTransactions || avg >= a.bench.EfficiencyMaxAverage {
		return Insight{}, false
	}
	adminCost := float64(c.count) * a.bench.AdminCostPerTransaction

	priority := PriorityLow
	if adminCost > a.bench.EfficiencyMediumCost {
		priority = PriorityMedium
	}

	return Insight{
		Type:        TypeTransactionEfficiency,
		Title:       c.name + " Transaction Efficiency",
		Description: "High volume of small transactions increasing admin costs",
		Confidence:  a.bench.EfficiencyConfidence,
		Priority:    priority,
		Evidence: []string{
			fmt.Sprintf("%d transactions in %s", c.count, c.name),
			"Average transaction size: " + FormatMoney(avg),
			"Estimated admin cost: " + FormatMoney(adminCost),
		},
		NextStep:         fmt.Sprintf("Implement blanket POs or bulk ordering for %s", c.name),
		RiskAmount:       floatPtr(adminCost),
		Category:         c.name,
		TransactionCount: c.count,
		AvgTransaction:   avg,
		AdminCost:        adminCost,
	}, true
}

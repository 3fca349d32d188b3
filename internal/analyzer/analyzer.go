// Package analyzer turns a batch of procurement records into ranked,
// evidence-backed savings and risk insights.
//
// Every detector is a deterministic rule over the input batch and a fixed set
// of benchmark multipliers. Nothing here performs I/O or keeps state between
// calls, so an Analyzer may be shared across goroutines.
package analyzer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrUnknownMode is returned by Detect for a mode that names no detector.
var ErrUnknownMode = errors.New("unknown analysis mode")

// Mode selects which detectors a run executes.
type Mode string

const (
	ModeFull                  Mode = "full"
	ModeDuplicateVendors      Mode = "duplicateVendors"
	ModeOffContractSpend      Mode = "offContractSpend"
	ModePriceAnomalies        Mode = "priceAnomalies"
	ModeContractOpportunities Mode = "contractOpportunities"
	ModeTailSpend             Mode = "tailSpend"
)

// Modes lists every accepted mode, full first.
func Modes() []Mode {
	return []Mode{
		ModeFull,
		ModeDuplicateVendors,
		ModeOffContractSpend,
		ModePriceAnomalies,
		ModeContractOpportunities,
		ModeTailSpend,
	}
}

// IsDetectorMode reports whether mode names a single detector.
func IsDetectorMode(mode Mode) bool {
	switch mode {
	case ModeDuplicateVendors, ModeOffContractSpend, ModePriceAnomalies,
		ModeContractOpportunities, ModeTailSpend:
		return true
	}
	return false
}

// Analyzer runs the procurement detectors with a fixed set of benchmarks.
type Analyzer struct {
	bench   Benchmarks
	rules   []CategoryRule
	aliases map[string]string
	now     func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithCategoryRules replaces the keyword table used to classify
// uncategorized records. Keywords match case-insensitively; blank keywords
// are dropped.
func WithCategoryRules(rules []CategoryRule) Option {
	return func(a *Analyzer) {
		a.rules = make([]CategoryRule, 0, len(rules))
		for _, rule := range rules {
			kws := make([]string, 0, len(rule.Keywords))
			for _, kw := range rule.Keywords {
				if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
					kws = append(kws, kw)
				}
			}
			a.rules = append(a.rules, CategoryRule{Category: rule.Category, Keywords: kws})
		}
	}
}

// WithCategoryAliases adds or overrides category synonyms. Keys are matched
// after the same title-casing NormalizeCategoryName applies, so "it gear"
// and "IT GEAR" name the same synonym.
func WithCategoryAliases(aliases map[string]string) Option {
	return func(a *Analyzer) {
		for k, v := range aliases {
			a.aliases[titleCase(k)] = v
		}
	}
}

// New creates an Analyzer using the given benchmarks.
func New(bench Benchmarks, opts ...Option) *Analyzer {
	a := &Analyzer{
		bench:   bench,
		rules:   DefaultCategoryRules(),
		aliases: DefaultCategoryAliases(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewDefault creates an Analyzer with DefaultBenchmarks.
func NewDefault() *Analyzer {
	return New(DefaultBenchmarks())
}

// Benchmarks returns the multipliers and thresholds in use.
func (a *Analyzer) Benchmarks() Benchmarks {
	return a.bench
}

// Analyze runs every detector over records and aggregates the findings.
// It never fails: an empty batch yields an empty, zero-valued result.
func (a *Analyzer) Analyze(records []Record) *AnalysisResult {
	start := a.now()

	quality := CheckDataQuality(records)

	insights := make([]Insight, 0)
	insights = append(insights, a.DetectDuplicateVendors(records)...)
	insights = append(insights, a.DetectOffContractSpend(records)...)
	insights = append(insights, a.DetectPriceAnomalies(records)...)
	insights = append(insights, a.DetectVolumeOpportunities(records)...)
	insights = append(insights, a.DetectTailSpend(records)...)

	sortBySavings(insights)

	var totalSavings, totalRisk float64
	for i := range insights {
		totalSavings += insights[i].SavingsValue()
		totalRisk += insights[i].RiskValue()
	}

	return &AnalysisResult{
		Insights: insights,
		Summary: Summary{
			TotalSavings:    totalSavings,
			TotalRisk:       totalRisk,
			RecordsAnalyzed: len(records),
			AnalysisTimeMs:  a.now().Sub(start).Milliseconds(),
			Confidence:      overallConfidence(insights),
		},
		DataQuality: quality,
		ActionPlan:  buildActionPlan(insights),
	}
}

// Detect runs the single detector named by mode. The insights keep the
// detector's own emission order.
func (a *Analyzer) Detect(records []Record, mode Mode) (*DetectorResult, error) {
	var insights []Insight
	switch mode {
	case ModeDuplicateVendors:
		insights = a.DetectDuplicateVendors(records)
	case ModeOffContractSpend:
		insights = a.DetectOffContractSpend(records)
	case ModePriceAnomalies:
		insights = a.DetectPriceAnomalies(records)
	case ModeContractOpportunities:
		insights = a.DetectVolumeOpportunities(records)
	case ModeTailSpend:
		insights = a.DetectTailSpend(records)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if insights == nil {
		insights = []Insight{}
	}

	var totalSavings float64
	for i := range insights {
		totalSavings += insights[i].SavingsValue()
	}

	return &DetectorResult{
		Insights: insights,
		Summary: DetectorSummary{
			TotalSavings:    totalSavings,
			RecordsAnalyzed: len(records),
		},
		AnalysisType: mode,
	}, nil
}

// sortBySavings orders insights by savings, largest first. Risk-only insights
// compare as zero savings. The sort is stable so equal savings keep detector
// order.
func sortBySavings(insights []Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].SavingsValue() > insights[j].SavingsValue()
	})
}

// groupByVendor rolls records up per raw vendor string in first-seen order.
func groupByVendor(records []Record) []vendorAggregate {
	index := make(map[string]int)
	var groups []vendorAggregate
	for _, r := range records {
		i, ok := index[r.Vendor]
		if !ok {
			i = len(groups)
			index[r.Vendor] = i
			groups = append(groups, vendorAggregate{vendor: r.Vendor})
		}
		groups[i].spend += r.Amount
		groups[i].count++
	}
	return groups
}

func totalVendorSpend(groups []vendorAggregate) float64 {
	var total float64
	for _, g := range groups {
		total += g.spend
	}
	return total
}

func floatPtr(v float64) *float64 {
	return &v
}

// uniqueVendors returns the distinct vendor strings of records in first-seen order.
func uniqueVendors(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.Vendor] {
			seen[r.Vendor] = true
			out = append(out, r.Vendor)
		}
	}
	return out
}

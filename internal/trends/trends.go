// Package trends keeps one analysis snapshot per calendar month and reports
// how savings, insight counts and compliance move over time.
package trends

import (
	"fmt"
	"math"
	"time"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
)

// MaxSnapshots is the number of months retained.
const MaxSnapshots = 12

// Metrics are the per-snapshot figures.
type Metrics struct {
	PotentialSavings     float64 `json:"potentialSavings"`
	InsightsFound        int     `json:"insightsFound"`
	NonCompliantSpend    float64 `json:"nonCompliantSpend"`
	DuplicateVendors     int     `json:"duplicateVendors"`
	ContractAlerts       int     `json:"contractAlerts"`
	CategoriesAnalyzed   int     `json:"categoriesAnalyzed"`
	AvgSavingsPerInsight float64 `json:"avgSavingsPerInsight"`
	ProcessingTime       float64 `json:"processingTime"`
}

// Snapshot is the recorded outcome of one analysis, keyed by year and month.
type Snapshot struct {
	ID               string    `json:"id"`
	Date             string    `json:"date"`
	Month            string    `json:"month"`
	MonthNumber      int       `json:"monthNumber"`
	Year             int       `json:"year"`
	Metrics          Metrics   `json:"metrics"`
	RecordsProcessed int       `json:"recordsProcessed"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Period returns the sortable "YYYY-MM" key of the snapshot.
func (s *Snapshot) Period() string {
	return fmt.Sprintf("%04d-%02d", s.Year, s.MonthNumber)
}

// Store persists snapshots.
type Store interface {
	// SaveSnapshot replaces any snapshot for the same period and then keeps
	// only the newest keep periods.
	SaveSnapshot(s *Snapshot, keep int) error

	// ListSnapshots returns the newest limit snapshots, oldest first.
	ListSnapshots(limit int) ([]Snapshot, error)
}

// BatchStats describes the input batch of an analysis.
type BatchStats struct {
	Records        int
	TotalSpend     float64
	Categories     int
	ContractAlerts int
}

// BatchStatsFor derives the stats of a record batch. ContractAlerts is left
// for the caller.
func BatchStatsFor(records []analyzer.Record) BatchStats {
	stats := BatchStats{Records: len(records)}
	seen := make(map[string]bool)
	for _, r := range records {
		stats.TotalSpend += r.Amount
		if r.Category != "" {
			seen[r.Category] = true
		}
	}
	stats.Categories = len(seen)
	return stats
}

// Direction classifies a month-over-month change.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

func direction(change float64) Direction {
	switch {
	case change > 0:
		return Increasing
	case change < 0:
		return Decreasing
	}
	return Stable
}

// Summary compares the two most recent snapshots and aggregates the window.
type Summary struct {
	TotalSavingsIdentified float64   `json:"totalSavingsIdentified"`
	AvgMonthlyInsights     int       `json:"avgMonthlyInsights"`
	ComplianceImprovement  float64   `json:"complianceImprovement"`
	SavingsTrend           Direction `json:"savingsTrend"`
	InsightsTrend          Direction `json:"insightsTrend"`
	BestMonth              Snapshot  `json:"bestMonth"`
}

// Datasets holds one series per charted metric, aligned with ChartData.Labels.
type Datasets struct {
	PotentialSavings  []float64 `json:"potentialSavings"`
	InsightsFound     []int     `json:"insightsFound"`
	NonCompliantSpend []float64 `json:"nonCompliantSpend"`
	DuplicateVendors  []int     `json:"duplicateVendors"`
	ProcessingTime    []float64 `json:"processingTime"`
}

// ChartData is the snapshot window laid out for plotting.
type ChartData struct {
	Labels   []string `json:"labels"`
	Datasets Datasets `json:"datasets"`
}

// Report is the trend view over a window of months.
type Report struct {
	Trends    []Snapshot `json:"trends"`
	Summary   *Summary   `json:"summary"`
	ChartData ChartData  `json:"chartData"`
}

// Manager records and reports snapshots.
type Manager struct {
	store Store
	now   func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock sets the time source used to date snapshots.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Capture turns an analysis into a snapshot for the current month without
// storing it.
func (m *Manager) Capture(result *analyzer.AnalysisResult, stats BatchStats) *Snapshot {
	now := m.now()

	metrics := Metrics{
		PotentialSavings:   result.Summary.TotalSavings,
		InsightsFound:      len(result.Insights),
		ContractAlerts:     stats.ContractAlerts,
		CategoriesAnalyzed: stats.Categories,
		ProcessingTime:     float64(result.Summary.AnalysisTimeMs) / 1000,
	}

	var offContract, savings float64
	for i := range result.Insights {
		ins := &result.Insights[i]
		savings += ins.SavingsValue()
		switch ins.Type {
		case analyzer.TypeDuplicateVendors:
			metrics.DuplicateVendors += len(ins.VendorNames)
		case analyzer.TypeOffContractSpend:
			offContract += ins.OffContractSpend
		}
	}
	if stats.TotalSpend > 0 {
		metrics.NonCompliantSpend = math.Round(offContract/stats.TotalSpend*1000) / 10
	}
	if n := len(result.Insights); n > 0 {
		metrics.AvgSavingsPerInsight = math.Round(savings / float64(n))
	}

	return &Snapshot{
		ID:               fmt.Sprintf("trend_%d", now.UnixMilli()),
		Date:             now.Format("2006-01-02"),
		Month:            now.Month().String()[:3],
		MonthNumber:      int(now.Month()),
		Year:             now.Year(),
		Metrics:          metrics,
		RecordsProcessed: stats.Records,
		CreatedAt:        now.UTC(),
	}
}

// Record captures and stores a snapshot, replacing this month's previous one.
func (m *Manager) Record(result *analyzer.AnalysisResult, stats BatchStats) (*Snapshot, error) {
	snap := m.Capture(result, stats)
	if err := m.store.SaveSnapshot(snap, MaxSnapshots); err != nil {
		return nil, fmt.Errorf("failed to record trend snapshot: %w", err)
	}
	return snap, nil
}

// Get reports the newest months snapshots. Values outside 1..MaxSnapshots
// mean MaxSnapshots.
func (m *Manager) Get(months int) (*Report, error) {
	if months <= 0 || months > MaxSnapshots {
		months = MaxSnapshots
	}

	snaps, err := m.store.ListSnapshots(months)
	if err != nil {
		return nil, fmt.Errorf("failed to list trend snapshots: %w", err)
	}
	if snaps == nil {
		snaps = []Snapshot{}
	}

	return &Report{
		Trends:    snaps,
		Summary:   Summarize(snaps),
		ChartData: Chart(snaps),
	}, nil
}

// Summarize returns nil for fewer than two snapshots.
func Summarize(snaps []Snapshot) *Summary {
	if len(snaps) < 2 {
		return nil
	}
	latest := snaps[len(snaps)-1].Metrics
	previous := snaps[len(snaps)-2].Metrics

	var totalSavings float64
	var totalInsights int
	best := snaps[0]
	for _, s := range snaps {
		totalSavings += s.Metrics.PotentialSavings
		totalInsights += s.Metrics.InsightsFound
		if s.Metrics.PotentialSavings > best.Metrics.PotentialSavings {
			best = s
		}
	}

	return &Summary{
		TotalSavingsIdentified: totalSavings,
		AvgMonthlyInsights:     int(math.Round(float64(totalInsights) / float64(len(snaps)))),
		ComplianceImprovement:  previous.NonCompliantSpend - latest.NonCompliantSpend,
		SavingsTrend:           direction(latest.PotentialSavings - previous.PotentialSavings),
		InsightsTrend:          direction(float64(latest.InsightsFound - previous.InsightsFound)),
		BestMonth:              best,
	}
}

// Chart lays snapshots out as labelled series.
func Chart(snaps []Snapshot) ChartData {
	chart := ChartData{
		Labels: make([]string, 0, len(snaps)),
		Datasets: Datasets{
			PotentialSavings:  make([]float64, 0, len(snaps)),
			InsightsFound:     make([]int, 0, len(snaps)),
			NonCompliantSpend: make([]float64, 0, len(snaps)),
			DuplicateVendors:  make([]int, 0, len(snaps)),
			ProcessingTime:    make([]float64, 0, len(snaps)),
		},
	}
	for _, s := range snaps {
		chart.Labels = append(chart.Labels, s.Month)
		chart.Datasets.PotentialSavings = append(chart.Datasets.PotentialSavings, s.Metrics.PotentialSavings)
		chart.Datasets.InsightsFound = append(chart.Datasets.InsightsFound, s.Metrics.InsightsFound)
		chart.Datasets.NonCompliantSpend = append(chart.Datasets.NonCompliantSpend, s.Metrics.NonCompliantSpend)
		chart.Datasets.DuplicateVendors = append(chart.Datasets.DuplicateVendors, s.Metrics.DuplicateVendors)
		chart.Datasets.ProcessingTime = append(chart.Datasets.ProcessingTime, s.Metrics.ProcessingTime)
	}
	return chart
}

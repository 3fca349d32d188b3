package watcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/ingest"
	"github.com/blackwell-systems/spendscope/internal/trends"
)

// TrendRecorder stores a snapshot per processed file.
type TrendRecorder interface {
	Record(result *analyzer.AnalysisResult, stats trends.BatchStats) (*trends.Snapshot, error)
}

// PipelineConfig wires a Pipeline. Analyzer and OutDir are required; a nil
// Trends disables trend recording.
type PipelineConfig struct {
	Analyzer *analyzer.Analyzer
	Trends   TrendRecorder
	OutDir   string
	Ingest   ingest.Options
	Logger   *zap.Logger

	// AlertCount reports active contract alerts for the trend snapshot.
	AlertCount func() int

	Now func() time.Time
}

// Pipeline turns one input file into a written report.
type Pipeline struct {
	analyzer   *analyzer.Analyzer
	trends     TrendRecorder
	outDir     string
	ingestOpts ingest.Options
	logger     *zap.Logger
	alertCount func() int
	now        func() time.Time
}

// NewPipeline creates a Pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	p := &Pipeline{
		analyzer:   cfg.Analyzer,
		trends:     cfg.Trends,
		outDir:     cfg.OutDir,
		ingestOpts: cfg.Ingest,
		logger:     cfg.Logger,
		alertCount: cfg.AlertCount,
		now:        cfg.Now,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.ingestOpts.Now == nil {
		p.ingestOpts.Now = p.now
	}
	return p
}

// Report is the document written for each processed file.
type Report struct {
	Source         string                   `json:"source"`
	ProcessedAt    time.Time                `json:"processedAt"`
	Records        int                      `json:"records"`
	Analysis       *analyzer.AnalysisResult `json:"analysis"`
	Categorization *analyzer.Categorization `json:"categorization"`
	Trend          *trends.Snapshot         `json:"trend,omitempty"`
}

// Process ingests path, analyzes it, records a trend snapshot and writes the
// report. It returns the report's location.
func (p *Pipeline) Process(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("pipeline: open input: %w", err)
	}
	records, err := ingest.Parse(f, filepath.Base(path), p.ingestOpts)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("pipeline: %w", err)
	}

	report := &Report{
		Source:         filepath.Base(path),
		ProcessedAt:    p.now().UTC(),
		Records:        len(records),
		Analysis:       p.analyzer.Analyze(records),
		Categorization: p.analyzer.CategorizeSpend(records),
	}

	if p.trends != nil {
		stats := trends.BatchStatsFor(records)
		if p.alertCount != nil {
			stats.ContractAlerts = p.alertCount()
		}
		snap, err := p.trends.Record(report.Analysis, stats)
		if err != nil {
			// The report is still worth writing without a trend entry.
			p.logger.Warn("pipeline: trend snapshot not recorded",
				zap.String("file", path), zap.Error(err))
		}
		report.Trend = snap
	}

	out := ReportPath(p.outDir, path)
	if err := writeReportAtomic(out, report); err != nil {
		return "", err
	}

	p.logger.Info("processed inbox file",
		zap.String("file", path),
		zap.String("report", out),
		zap.Int("records", len(records)),
		zap.Int("insights", len(report.Analysis.Insights)),
		zap.Float64("total_savings", report.Analysis.Summary.TotalSavings))
	return out, nil
}

// writeReportAtomic writes report to path via a temp-file rename so readers
// never observe a partial report.
func writeReportAtomic(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: encode report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("pipeline: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("pipeline: create temp report: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("pipeline: write temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("pipeline: close temp report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("pipeline: rename report: %w", err)
	}
	return nil
}

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/blackwell-systems/spendscope/internal/alerts"
	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/commentary"
	"github.com/blackwell-systems/spendscope/internal/config"
	"github.com/blackwell-systems/spendscope/internal/ingest"
	"github.com/blackwell-systems/spendscope/internal/logging"
	"github.com/blackwell-systems/spendscope/internal/store"
	"github.com/blackwell-systems/spendscope/internal/trends"
)

// runtime is the state shared by every command: settings after flag
// overrides, the logger and the analyzer built from them.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	analyzer *analyzer.Analyzer
	ingest   ingest.Options
}

// loadRuntime reads settings, applies the global flags and builds the
// logger and analyzer.
func loadRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		analyzer: analyzer.New(cfg.Benchmarks, cfg.Categories.AnalyzerOptions()...),
	}

	// Header aliases are optional; a broken file only costs the extras.
	if dir, err := config.Dir(); err == nil {
		aliases, err := config.LoadHeaderAliases(dir)
		if err != nil {
			logger.Warn("failed to read header aliases", zap.String("dir", dir), zap.Error(err))
		}
		if aliases != nil && len(aliases.Aliases) > 0 {
			rt.ingest.ExtraAliases = aliases.Aliases
		}
	}

	return rt, nil
}

func (rt *runtime) close() {
	_ = rt.logger.Sync()
}

// openStore opens the database, creating it on first use.
func (rt *runtime) openStore() (*store.Store, error) {
	st, err := store.Open(rt.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

func (rt *runtime) commentary() *commentary.Client {
	c := rt.cfg.Commentary
	return commentary.New(commentary.Options{
		BaseURL:           c.BaseURL,
		Endpoint:          c.Endpoint,
		Model:             c.Model,
		APIKey:            c.APIKey(),
		Timeout:           c.Timeout,
		RequestsPerMinute: c.RequestsPerMinute,
	}, rt.logger)
}

func (rt *runtime) trendManager(st *store.Store) *trends.Manager {
	return trends.NewManager(st)
}

func (rt *runtime) alertManager(st *store.Store) *alerts.Manager {
	return alerts.NewManager(st, rt.commentary(), alerts.WithWindowDays(rt.cfg.Alerts.WindowDays))
}

// readRecords parses a csv, xlsx or json file into records.
func readRecords(path string, opts ingest.Options) ([]analyzer.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ingest.Parse(f, filepath.Base(path), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// recordTrend stores a snapshot for a full analysis. Active alerts are
// counted into the snapshot when the alert table can be read.
func recordTrend(rt *runtime, st *store.Store, result *analyzer.AnalysisResult, records []analyzer.Record) (*trends.Snapshot, error) {
	stats := trends.BatchStatsFor(records)
	if active, err := rt.alertManager(st).Active(); err == nil {
		stats.ContractAlerts = len(active)
	} else {
		rt.logger.Warn("failed to count active alerts", zap.Error(err))
	}
	return rt.trendManager(st).Record(result, stats)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

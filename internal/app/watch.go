package app

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/spendscope/internal/store"
	"github.com/blackwell-systems/spendscope/internal/trends"
	"github.com/blackwell-systems/spendscope/internal/watcher"
)

var (
	watchOutDir   string
	watchPIDFile  string
	watchDebounce time.Duration
	watchNoRecord bool

	watchCmd = &cobra.Command{
		Use:   "watch <inbox>",
		Short: "Analyze every file dropped into a directory",
		Long: `Watch an inbox directory and analyze each csv, xlsx or json file written
to it.

Files already in the inbox are processed at startup. A file is processed
once it has been quiet for the debounce interval, so files still being
copied are not read half-written. Each run writes <file>.analysis.json
(spend.csv gives spend.csv.analysis.json) with the full analysis and
category breakdown, and records a trend snapshot.

Hidden files, editor backups, office lock files and the watcher's own
reports are ignored.

Only one watcher may run per inbox; a PID file guards against a second one.
Stop the watcher with Ctrl+C.`,
		Example: `  # Reports next to the inputs
  spendscope watch ~/spend/inbox

  # Reports in a separate directory, without trend snapshots
  spendscope watch ~/spend/inbox --out ~/spend/reports --no-record

  # Use a custom PID file
  spendscope watch ~/spend/inbox --pid-file /tmp/spendscope-watch.pid`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().StringVar(&watchOutDir, "out", "", "report directory (default: the inbox)")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: <inbox>/"+watcher.PIDFileName+")")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet time before a file is processed")
	watchCmd.Flags().BoolVar(&watchNoRecord, "no-record", false, "do not record trend snapshots")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	inbox, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve inbox: %w", err)
	}

	outDir := watchOutDir
	if outDir == "" {
		outDir = inbox
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	pidFile := watchPIDFile
	if pidFile == "" {
		pidFile = filepath.Join(inbox, watcher.PIDFileName)
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if err := watcher.AcquirePIDFile(pidFile); err != nil {
		return err
	}
	defer func() {
		if err := watcher.ReleasePIDFile(pidFile); err != nil {
			rt.logger.Warn("failed to remove PID file", zap.String("path", pidFile), zap.Error(err))
		}
	}()

	pcfg := watcher.PipelineConfig{
		Analyzer: rt.analyzer,
		OutDir:   outDir,
		Ingest:   rt.ingest,
		Logger:   rt.logger,
	}

	var st *store.Store
	if !watchNoRecord {
		st, err = rt.openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		pcfg.Trends = trends.NewManager(st)
		am := rt.alertManager(st)
		pcfg.AlertCount = func() int {
			active, err := am.Active()
			if err != nil {
				rt.logger.Warn("failed to count active alerts", zap.Error(err))
				return 0
			}
			return len(active)
		}
	}

	out := cmd.OutOrStdout()
	w, err := watcher.New(watcher.Config{
		Inbox:    inbox,
		Pipeline: watcher.NewPipeline(pcfg),
		Debounce: watchDebounce,
		Logger:   rt.logger,
		OnProcessed: func(input, report string, err error) {
			if err != nil {
				fmt.Fprintf(out, "✗ %s: %v\n", filepath.Base(input), err)
				return
			}
			fmt.Fprintf(out, "✓ %s → %s\n", filepath.Base(input), report)
		},
	})
	if err != nil {
		return err
	}

	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", inbox)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	<-sigCh

	fmt.Fprintln(out, "\nStopping watcher...")
	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	return nil
}

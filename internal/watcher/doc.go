// Package watcher analyzes procurement exports dropped into an inbox
// directory.
//
// The Watcher subscribes to the inbox with fsnotify. Every created or
// rewritten .csv, .xlsx, .xls or .json file is processed once writes settle:
// it is ingested, analyzed, recorded as a trend snapshot, and the report is
// written next to the other reports as <file>.analysis.json, keeping the
// input extension. Files already in the inbox when the watcher starts are
// processed once on startup.
//
// Key features:
//   - Debounced processing so partially written files are not read
//   - Crash-safe report writes (temp file + rename pattern)
//   - PID file guard against two watchers sharing one inbox
//   - Graceful shutdown that waits for in-flight files
//
// Example usage:
//
//	p := watcher.NewPipeline(watcher.PipelineConfig{
//		Analyzer: analyzer.NewDefault(),
//		Trends:   trends.NewManager(st),
//		OutDir:   "/data/reports",
//	})
//
//	w, err := watcher.New(watcher.Config{Inbox: "/data/inbox", Pipeline: p})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher

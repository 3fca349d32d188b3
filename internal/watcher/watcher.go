package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is processed.
const DefaultDebounce = 500 * time.Millisecond

// Processor handles one settled input file.
type Processor interface {
	Process(path string) (string, error)
}

// Config wires a Watcher. Inbox and Pipeline are required.
type Config struct {
	Inbox    string
	Pipeline Processor
	Debounce time.Duration
	Logger   *zap.Logger

	// OnProcessed, when set, is called after each file with its report path
	// or error.
	OnProcessed func(input, report string, err error)
}

// Watcher processes files written to an inbox directory.
type Watcher struct {
	inbox       string
	proc        Processor
	debounce    time.Duration
	logger      *zap.Logger
	onProcessed func(input, report string, err error)

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

// New creates a Watcher for cfg.Inbox. The inbox must exist.
func New(cfg Config) (*Watcher, error) {
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	info, err := os.Stat(cfg.Inbox)
	if err != nil {
		return nil, fmt.Errorf("failed to stat inbox: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox %s is not a directory", cfg.Inbox)
	}

	w := &Watcher{
		inbox:       cfg.Inbox,
		proc:        cfg.Pipeline,
		debounce:    cfg.Debounce,
		logger:      cfg.Logger,
		onProcessed: cfg.OnProcessed,
		stopCh:      make(chan struct{}),
		pending:     make(map[string]*time.Timer),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w, nil
}

// Start subscribes to the inbox and schedules every file already in it.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(w.inbox); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.inbox, err)
	}
	w.fsw = fsw

	existing, err := existingFiles(w.inbox)
	if err != nil {
		w.logger.Warn("watcher: initial inbox scan failed", zap.Error(err))
	}
	for _, path := range existing {
		w.schedule(path)
	}

	w.wg.Add(1)
	go w.runEventLoop()

	w.logger.Info("watching inbox",
		zap.String("inbox", w.inbox),
		zap.Int("existing_files", len(existing)))
	return nil
}

func existingFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && Matches(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (w *Watcher) runEventLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				if Matches(event.Name) {
					w.schedule(event.Name)
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: fsnotify error", zap.Error(err))
		case <-w.stopCh:
			return
		}
	}
}

// schedule (re)starts the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok && t.Stop() {
		w.wg.Done()
	}

	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()

		w.mu.Lock()
		current := w.pending[path] == timer
		if current {
			delete(w.pending, path)
		}
		stopped := w.stopped
		w.mu.Unlock()

		if current && !stopped {
			w.process(path)
		}
	})
	w.pending[path] = timer
}

func (w *Watcher) process(path string) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err == nil && !info.Mode().IsRegular() {
		return
	}

	report, err := w.proc.Process(path)
	if err != nil {
		w.logger.Warn("watcher: failed to process file", zap.String("file", path), zap.Error(err))
	}
	if w.onProcessed != nil {
		w.onProcessed(path, report, err)
	}
}

// Stop halts the watcher and waits for files already being processed.
// Pending debounced files are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	for path, t := range w.pending {
		if t.Stop() {
			// The callback will never run, so release its slot here.
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()

	close(w.stopCh)

	var err error
	if w.fsw != nil {
		err = w.fsw.Close()
	}
	w.wg.Wait()
	return err
}

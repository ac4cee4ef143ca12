package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a seed file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors and config managers that replace the file by rename are seen.
// Bursts of events are collapsed by a debouncer.
type Watcher struct {
	path     string
	loader   *Loader
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	debounce *Debouncer

	// OnReload, when set, receives the outcome of every reload.
	OnReload func(Report, error)

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for path. interval <= 0 uses 100ms.
func NewWatcher(path string, loader *Loader, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seed path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     abs,
		loader:   loader,
		logger:   logger.With("component", "seed.watcher"),
		watcher:  fw,
		debounce: NewDebouncer(interval),
	}, nil
}

// Watch blocks until ctx is done, reloading the file after each change.
// Reload failures are logged and do not stop the watcher.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		_ = w.watcher.Close()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.InfoContext(ctx, "seed watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "seed watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.DebugContext(ctx, "seed file event", "op", event.Op.String())
			w.debounce.Trigger(func() { w.reload(ctx) })

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.ErrorContext(ctx, "seed watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := w.loader.Load(ctx, w.path)
	if err != nil {
		w.logger.ErrorContext(ctx, "seed reload failed", "path", w.path, "error", err)
	}
	if w.OnReload != nil {
		w.OnReload(report, err)
	}
}

package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// DropWatcher watches each user's drop directory for new or removed files
// and turns filesystem events into ingest_file/cleanup_file tasks on the
// queue (spec §4.10). It debounces rapid writes the same way a save-in-
// progress produces multiple fsnotify events for one logical file.
type DropWatcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	queue       driven.TaskQueue
	dropRoot    string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	removed     map[string]bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	logger      *slog.Logger
}

// Config configures a DropWatcher.
type Config struct {
	// DropRoot is the root directory containing one subdirectory per user
	// (e.g. dropRoot/<userID>/file.pdf).
	DropRoot string
	Queue    driven.TaskQueue
	Logger   *slog.Logger
}

// New creates a DropWatcher rooted at cfg.DropRoot.
func New(cfg Config) (*DropWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DropWatcher{
		watcher:     fsw,
		queue:       cfg.Queue,
		dropRoot:    cfg.DropRoot,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		removed:     make(map[string]bool),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}, nil
}

// Start begins watching the drop root. Non-blocking; runs in a goroutine.
func (w *DropWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dropRoot, 0755); err != nil {
		w.logger.Warn("drop watcher: failed to create drop root, continuing anyway", "path", w.dropRoot, "error", err)
	}

	if err := w.addTree(w.dropRoot); err != nil {
		w.logger.Warn("drop watcher: initial watch failed", "path", w.dropRoot, "error", err)
	}

	go w.run(ctx)
	return nil
}

// addTree adds root and any existing per-user subdirectories to the watch
// list so uploads that already have a directory get picked up immediately.
func (w *DropWatcher) addTree(root string) error {
	if err := w.watcher.Add(root); err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() {
			_ = w.watcher.Add(filepath.Join(root, entry.Name()))
		}
	}
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *DropWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("drop watcher: error closing watcher", "error", err)
	}
}

func (w *DropWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("drop watcher error", "error", err)
		case <-debounceTicker.C:
			w.processDebounced(ctx)
		}
	}
}

func (w *DropWatcher) handleEvent(event fsnotify.Event) {
	info, statErr := os.Stat(event.Name)
	if statErr == nil && info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			_ = w.watcher.Add(event.Name)
		}
		return
	}

	if shouldSkip(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.removed[event.Name] = true
		w.debounceMap[event.Name] = time.Now()
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		delete(w.removed, event.Name)
		w.debounceMap[event.Name] = time.Now()
	}
}

// skipExtensions are compiled artifacts and scripts that should never be
// ingested as documents (spec §6).
var skipExtensions = map[string]bool{
	".pyc": true, ".pyo": true, ".pyd": true, ".so": true, ".dll": true,
	".exe": true, ".sh": true, ".bat": true,
}

// shouldSkip reports whether path is a dotfile, editor/OS artifact, or a
// blacklisted extension that the drop watcher must not enqueue for ingest.
func shouldSkip(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	if skipExtensions[strings.ToLower(filepath.Ext(name))] {
		return true
	}
	return false
}

func (w *DropWatcher) processDebounced(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	toProcess := make([]string, 0)
	for path, t := range w.debounceMap {
		if now.Sub(t) >= w.debounceDur {
			toProcess = append(toProcess, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toProcess {
		w.enqueue(ctx, path)
	}
}

func (w *DropWatcher) enqueue(ctx context.Context, path string) {
	w.mu.Lock()
	removed := w.removed[path]
	delete(w.removed, path)
	w.mu.Unlock()

	var task *domain.Task
	if removed {
		task = domain.NewCleanupFileTask(path)
	} else {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return
		}
		task = domain.NewIngestFileTask(path)
	}

	if err := w.queue.Enqueue(ctx, task); err != nil {
		w.logger.Error("drop watcher: failed to enqueue task", "path", path, "type", task.Type, "error", err)
	} else {
		w.logger.Debug("drop watcher: enqueued task", "path", path, "type", task.Type)
	}
}

// Package watcher monitors the CSV drop folder. A file placed there is
// imported as a full catalog replacement once it stops changing, then renamed
// with a result suffix so it is never picked up twice.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

// Suffixes appended to processed files.
const (
	doneSuffix   = ".imported"
	failedSuffix = ".failed"
)

// settleDelay is how long a file must be quiet before it is considered
// fully written. Copies into the folder arrive as a burst of writes.
const settleDelay = 2 * time.Second

// Watcher imports CSV files dropped into a directory.
type Watcher struct {
	catalog *service.CatalogService
	dir     string
	logger  *slog.Logger

	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a drop-folder watcher. The directory is created if missing.
func New(catalog *service.CatalogService, dir string, logger *slog.Logger) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create drop folder: %w", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch drop folder: %w", err)
	}

	return &Watcher{
		catalog: catalog,
		dir:     dir,
		logger:  logger,
		fs:      fs,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Start processes events until the context is canceled. Files already in the
// folder at startup are picked up first.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("import drop folder watcher started", "dir", w.dir)
	w.sweepExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.schedule(ctx, event.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("drop folder watch error", "error", err)
		}
	}
}

// Close releases the underlying watch and cancels pending timers.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	return w.fs.Close()
}

// sweepExisting imports files that were dropped while the server was down.
func (w *Watcher) sweepExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Error("drop folder scan failed", "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if !eligible(path) {
			continue
		}
		w.process(ctx, path)
	}
}

// schedule arms (or re-arms) the settle timer for a path. Each write event
// pushes the import back until the file has been quiet for settleDelay.
func (w *Watcher) schedule(ctx context.Context, path string) {
	if !eligible(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.process(ctx, path)
	})
}

// process imports one file and renames it by outcome.
func (w *Watcher) process(ctx context.Context, path string) {
	file, err := os.Open(path) //#nosec G304 -- path comes from the watched folder
	if err != nil {
		w.logger.Error("drop file unreadable", "path", path, "error", err)
		return
	}

	// Dropping a file into the folder is the replace confirmation.
	result, importErr := w.catalog.ImportCSV(ctx, file, true)
	_ = file.Close()

	if importErr != nil {
		w.logger.Error("drop file import failed", "path", path, "error", importErr)
		w.rename(path, failedSuffix)
		return
	}

	w.logger.Info("drop file imported",
		"path", path,
		"job_id", result.JobID,
		"imported", result.Imported,
		"skipped", len(result.Skipped),
	)
	w.rename(path, doneSuffix)
}

func (w *Watcher) rename(path, suffix string) {
	if err := os.Rename(path, path+suffix); err != nil {
		w.logger.Error("drop file rename failed", "path", path, "error", err)
	}
}

// eligible reports whether a path is an unprocessed CSV file.
func eligible(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(name, ".csv") && !strings.HasPrefix(name, ".")
}

package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
	"github.com/shelfmarkapp/shelfmark-server/internal/watcher"
)

// WatcherHandle wraps the drop-folder watcher with its run context. Watcher
// is nil when the drop folder is disabled.
type WatcherHandle struct {
	Watcher *watcher.Watcher
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *WatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Close()
}

// ProvideImportWatcher provides the CSV drop-folder watcher, started in the
// background.
func ProvideImportWatcher(i do.Injector) (*WatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)

	if !cfg.Importer.WatchEnabled {
		log.Info("Import drop folder disabled")
		return &WatcherHandle{}, nil
	}

	w, err := watcher.New(catalogService, cfg.Importer.DropPath, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("import watcher stopped", "error", err)
		}
	}()

	return &WatcherHandle{Watcher: w, cancel: cancel}, nil
}

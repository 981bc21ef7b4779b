package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/api"
	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server with all routes configured.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)
	settingsService := do.MustInvoke[*service.SettingsService](i)

	apiServer := api.NewServer(catalogService, settingsService, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr, "name", cfg.Server.Name)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}

// Package di provides dependency injection configuration for the Shelfmark
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/di/providers"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Metadata layer
	do.Provide(injector, providers.ProvideLookup)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideSettingsService)

	// Workers
	do.Provide(injector, providers.ProvideImportWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap triggers lazy initialization of every long-lived component so
// startup failures surface before the server starts accepting traffic.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.LookupHandle](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)
	_ = do.MustInvoke[*providers.WatcherHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	return nil
}

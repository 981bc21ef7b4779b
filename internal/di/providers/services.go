package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

// ProvideCatalogService provides the catalog service with its snapshot
// hydrated from storage.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	lookupHandle := do.MustInvoke[*LookupHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewCatalogService(storeHandle.Store, lookupHandle.Lookup, log.Logger)
	if err := svc.Load(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

// ProvideSettingsService provides the display preferences service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(storeHandle.Store, log.Logger), nil
}

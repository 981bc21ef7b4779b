package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
)

// LookupHandle carries the configured lookup provider. Lookup is nil when
// outbound lookups are disabled.
type LookupHandle struct {
	Lookup metadata.Lookup
}

// ProvideLookup provides the bibliographic lookup client.
func ProvideLookup(i do.Injector) (*LookupHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Lookup.Enabled {
		log.Info("Bibliographic lookup disabled")
		return &LookupHandle{}, nil
	}

	client := openlibrary.New(cfg.Lookup.BaseURL, log.Logger)
	log.Info("Bibliographic lookup enabled", "base_url", cfg.Lookup.BaseURL)
	return &LookupHandle{Lookup: client}, nil
}

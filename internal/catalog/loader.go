// Package catalog provides the session-cached capability catalog loader.
// The catalog is fetched once per Loader lifetime; a failed fetch caches
// nothing so an explicit retry can succeed later.
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"transcodectl/internal/logging"
	"transcodectl/internal/services"
	"transcodectl/internal/transcode"
	"transcodectl/internal/workerapi"
)

// Fetcher is the worker surface the loader depends on.
type Fetcher interface {
	Catalog(ctx context.Context) (workerapi.CatalogPayload, error)
}

// Loader caches the capability catalog for its lifetime.
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu     sync.Mutex
	cached *transcode.Catalog
}

// NewLoader constructs a catalog loader.
func NewLoader(fetcher Fetcher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loader{fetcher: fetcher, logger: logging.WithComponent(logger, "catalog")}
}

// Get returns the cached catalog or fetches it from the worker. Callers must
// treat an error as "catalog not available": presenting empty selections is
// a defect, not a degraded mode.
func (l *Loader) Get(ctx context.Context) (transcode.Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		return *l.cached, nil
	}

	payload, err := l.fetcher.Catalog(ctx)
	if err != nil {
		return transcode.Catalog{}, services.Wrap(services.ErrUnavailable, "catalog", "fetch", "", err)
	}

	cat := transcode.CatalogFromWire(payload)
	if cat.Empty() {
		return transcode.Catalog{}, services.Wrap(services.ErrUnavailable, "catalog", "fetch", "worker returned an empty catalog", nil)
	}

	l.logger.Debug("catalog cached",
		logging.Int("formats", len(cat.Formats)),
		logging.Int("qualities", len(cat.Qualities)),
		logging.Int("speed_presets", len(cat.SpeedPresets)),
	)
	l.cached = &cat
	return cat, nil
}

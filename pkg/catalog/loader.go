package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/restynation/buythatworks/pkg/models"
)

const catalogKey = "catalog"

// DefaultTTL is how long a loaded catalog is served before it is fetched again.
const DefaultTTL = 15 * time.Minute

// Source fetches reference data from the external data service.
type Source interface {
	LoadCatalog(ctx context.Context) (models.CatalogData, error)
}

// LoadError reports that the reference catalog could not be fetched. Callers
// surface it instead of opening an editor with nothing to offer.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading reference catalog: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader caches the catalog for a TTL so every editing session and request
// does not hit the data service.
type Loader struct {
	source Source
	cache  *ttlcache.Cache[string, *Catalog]
	ttl    time.Duration
	log    *slog.Logger
}

func NewLoader(source Source, ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := ttlcache.New[string, *Catalog](
		ttlcache.WithTTL[string, *Catalog](ttl),
		ttlcache.WithDisableTouchOnHit[string, *Catalog](),
	)
	go cache.Start()
	return &Loader{
		source: source,
		cache:  cache,
		ttl:    ttl,
		log:    slog.Default().With("component", "catalog"),
	}
}

// Load returns the cached catalog, fetching it from the source on a miss.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	if item := l.cache.Get(catalogKey); item != nil {
		return item.Value(), nil
	}
	l.log.Debug("catalog cache miss, querying source")
	data, err := l.source.LoadCatalog(ctx)
	if err != nil {
		l.log.Error("unable to load reference catalog", "error", err)
		return nil, &LoadError{Err: err}
	}
	c := New(data)
	if c.IsEmpty() {
		l.log.Warn("reference catalog has no device types")
	}
	l.cache.Set(catalogKey, c, l.ttl)
	return c, nil
}

// Invalidate drops the cached catalog.
func (l *Loader) Invalidate() {
	l.cache.Delete(catalogKey)
}

// Stop halts the cache's expiry goroutine.
func (l *Loader) Stop() {
	l.cache.Stop()
}

// StaticSource serves fixed data; used by tools and tests.
type StaticSource models.CatalogData

func (s StaticSource) LoadCatalog(context.Context) (models.CatalogData, error) {
	return models.CatalogData(s), nil
}

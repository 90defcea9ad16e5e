package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/sprintflow/scoring/internal/scoring"
	"github.com/sprintflow/scoring/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	catalogCacheKey   = "catalog::reference"
	catalogCacheSize  = 4 * 1024 * 1024
	defaultCatalogTTL = 10 * time.Minute
)

type referenceSource interface {
	ListReferenceExercises(ctx context.Context) ([]athlete.ReferenceExercise, error)
}

// CatalogCache serves the reference catalog, preferring the database table
// and falling back to the built-in one when the table is empty or
// unreachable.
type CatalogCache struct {
	cache      *freecache.Cache
	source     referenceSource
	ttlSeconds int
}

func NewCatalogCache(source referenceSource, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	ttlSeconds := int(ttl / time.Second)
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}
	return &CatalogCache{
		cache:      freecache.NewCache(catalogCacheSize),
		source:     source,
		ttlSeconds: ttlSeconds,
	}
}

func (c *CatalogCache) Catalog(ctx context.Context) *scoring.Catalog {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.catalog.get")
	defer span.End()

	if cached, err := c.cache.Get([]byte(catalogCacheKey)); err == nil {
		var exercises []athlete.ReferenceExercise
		if err := json.Unmarshal(cached, &exercises); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return catalogOrDefault(exercises)
		}
		log.Warnf("catalog cache: dropping unreadable entry")
		c.cache.Del([]byte(catalogCacheKey))
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	if c.source == nil {
		return scoring.DefaultCatalog()
	}

	exercises, err := c.source.ListReferenceExercises(ctx)
	if err != nil {
		// not cached, next request retries the table
		log.Errorf("catalog cache: load reference exercises: %s", err)
		return scoring.DefaultCatalog()
	}

	if exercisesJson, err := json.Marshal(exercises); err != nil {
		log.Errorf("catalog cache: marshal reference exercises: %s", err)
	} else if err := c.cache.Set([]byte(catalogCacheKey), exercisesJson, c.ttlSeconds); err != nil {
		log.Errorf("catalog cache: set: %s", err)
	}

	log.Debugf("catalog cache: loaded %d reference exercises", len(exercises))
	return catalogOrDefault(exercises)
}

// invalidate drops the cached catalog so the next read reloads the table.
func (c *CatalogCache) invalidate() {
	c.cache.Del([]byte(catalogCacheKey))
}

func catalogOrDefault(exercises []athlete.ReferenceExercise) *scoring.Catalog {
	if len(exercises) == 0 {
		return scoring.DefaultCatalog()
	}
	catalog := scoring.NewCatalog(exercises)
	if catalog.Len() == 0 {
		return scoring.DefaultCatalog()
	}
	return catalog
}

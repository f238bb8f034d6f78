package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// CacheName is the catalog cache entry holding the product snapshot.
const CacheName = "products"

const defaultCacheTTL = 15 * time.Minute

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CatalogKey(name string) string
}

// CachedSource keeps a JSON copy of the origin's products in redis.
// Cache failures fall back to the origin.
type CachedSource struct {
	origin catalog.Source
	cache  cacheStore
	ttl    time.Duration
	logg   *logger.Logger
}

func NewCachedSource(origin catalog.Source, cache cacheStore, ttl time.Duration, logg *logger.Logger) (*CachedSource, error) {
	if origin == nil {
		return nil, fmt.Errorf("origin source required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedSource{origin: origin, cache: cache, ttl: ttl, logg: logg}, nil
}

// Load implements catalog.Source.
func (s *CachedSource) Load(ctx context.Context) ([]catalog.Product, error) {
	key := s.cache.CatalogKey(CacheName)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var products []catalog.Product
		decodeErr := json.Unmarshal([]byte(raw), &products)
		if decodeErr == nil {
			s.logg.Debug(s.logg.WithField(ctx, "cache", "hit"), "catalog cache hit")
			return products, nil
		}
		s.logg.Warn(s.logg.WithField(ctx, "error", decodeErr.Error()), "discarding corrupt catalog cache")
	case errors.Is(err, redis.Nil):
	default:
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache unavailable")
	}

	products, err := s.origin.Load(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return products, nil
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache write failed")
	}
	return products, nil
}

// Invalidate drops the cached snapshot.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Del(ctx, s.cache.CatalogKey(CacheName))
}

package artwork

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/citypooh/Artinerary/internal/cache"
)

// CachedRepository decorates a Repository with short-lived Redis
// caching for the text-keyed queries. Nearby is deliberately not
// cached: it is keyed on raw user coordinates and almost never repeats.
// Cache failures degrade to the inner repository, never to an error.
type CachedRepository struct {
	inner Repository
	cache *cache.RedisCache
}

func NewCachedRepository(inner Repository, c *cache.RedisCache) *CachedRepository {
	return &CachedRepository{inner: inner, cache: c}
}

func (r *CachedRepository) Nearby(ctx context.Context, lat, lon float64, limit int, radiusMiles float64) ([]View, error) {
	return r.inner.Nearby(ctx, lat, lon, limit, radiusMiles)
}

func (r *CachedRepository) SearchText(ctx context.Context, query string, limit int) ([]View, error) {
	key := cache.SearchKey(query, limit)
	if views, ok := r.cachedViews(ctx, key); ok {
		return views, nil
	}
	views, err := r.inner.SearchText(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	r.storeViews(ctx, key, views, cache.SearchTTL)
	return views, nil
}

func (r *CachedRepository) SearchByLocationText(ctx context.Context, location string, limit int) ([]View, error) {
	key := cache.LocationKey(location, limit)
	if views, ok := r.cachedViews(ctx, key); ok {
		return views, nil
	}
	views, err := r.inner.SearchByLocationText(ctx, location, limit)
	if err != nil {
		return nil, err
	}
	r.storeViews(ctx, key, views, cache.LocationTTL)
	return views, nil
}

func (r *CachedRepository) ByBorough(ctx context.Context, borough string, limit int) ([]View, error) {
	key := cache.BoroughKey(borough, limit)
	if views, ok := r.cachedViews(ctx, key); ok {
		return views, nil
	}
	views, err := r.inner.ByBorough(ctx, borough, limit)
	if err != nil {
		return nil, err
	}
	r.storeViews(ctx, key, views, cache.BoroughTTL)
	return views, nil
}

func (r *CachedRepository) LocationMentioned(ctx context.Context, phrase string) (bool, error) {
	key := cache.MentionKey(phrase)
	if data, err := r.cache.Get(ctx, key); err == nil {
		mentioned, parseErr := strconv.ParseBool(string(data))
		if parseErr == nil {
			return mentioned, nil
		}
	}
	mentioned, err := r.inner.LocationMentioned(ctx, phrase)
	if err != nil {
		return false, err
	}
	if err := r.cache.Set(ctx, key, strconv.FormatBool(mentioned), cache.MentionTTL); err != nil {
		log.Debug().Err(err).Msg("Failed to cache location mention")
	}
	return mentioned, nil
}

func (r *CachedRepository) cachedViews(ctx context.Context, key string) ([]View, bool) {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var views []View
	if err := json.Unmarshal(data, &views); err != nil {
		return nil, false
	}
	return views, true
}

func (r *CachedRepository) storeViews(ctx context.Context, key string, views []View, ttl time.Duration) {
	data, err := json.Marshal(views)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, ttl); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Failed to cache artwork views")
	}
}

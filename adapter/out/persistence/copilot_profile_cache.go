package persistence

import (
	"context"
	"fmt"
	"time"

	"copilot_server/core/domain"
	"copilot_server/core/port/out"
	"copilot_server/pkg/cache"
)

// CachedProfileAdapter wraps a ProfileRepository with Redis caching.
// Profiles change rarely, so a generous TTL is fine.
type CachedProfileAdapter struct {
	delegate out.ProfileRepository
	cache    *cache.RedisCache
	ttl      time.Duration
}

var _ out.ProfileRepository = (*CachedProfileAdapter)(nil)

// NewCachedProfileAdapter creates a new cached profile adapter.
func NewCachedProfileAdapter(delegate out.ProfileRepository, redisCache *cache.RedisCache) *CachedProfileAdapter {
	return &CachedProfileAdapter{
		delegate: delegate,
		cache:    redisCache,
		ttl:      30 * time.Minute,
	}
}

func profileCacheKey(customerID string) string {
	return fmt.Sprintf("profile:%s", customerID)
}

// GetByID looks up the profile, cache first. Negative results are cached
// briefly to avoid hammering the database for unknown customers.
func (a *CachedProfileAdapter) GetByID(ctx context.Context, customerID string) (*domain.CustomerProfile, error) {
	key := profileCacheKey(customerID)

	var cached domain.CustomerProfile
	found, err := a.cache.GetJSON(ctx, key, &cached)
	if err == nil && found {
		if cached.ID == "" {
			// negative cache entry
			return nil, nil
		}
		return &cached, nil
	}

	profile, err := a.delegate.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if profile != nil {
		_ = a.cache.SetJSON(ctx, key, profile, a.ttl)
	} else {
		_ = a.cache.SetJSON(ctx, key, &domain.CustomerProfile{}, 5*time.Minute)
	}

	return profile, nil
}

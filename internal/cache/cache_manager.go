package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// CacheManager groups the per-domain cache helpers used by the repositories.
type CacheManager struct {
	client *redis.Client

	Fast       *CacheHelper
	Contest    *CacheHelper
	User       *CacheHelper
	Assignment *CacheHelper
}

// NewCacheManager creates cache helpers for every domain prefix. A nil
// client is allowed; every helper then degrades to pass-through.
func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		client:     client,
		Fast:       NewCacheHelper(client, FastCacheConfig.Prefix),
		Contest:    NewCacheHelper(client, ContestCacheConfig.Prefix),
		User:       NewCacheHelper(client, UserCacheConfig.Prefix),
		Assignment: NewCacheHelper(client, AssignmentCacheConfig.Prefix),
	}
}

// HealthCheck pings the underlying redis connection.
func (cm *CacheManager) HealthCheck(ctx context.Context) error {
	if cm.client == nil {
		return ErrCacheNotAvailable
	}
	return cm.client.Ping(ctx).Err()
}

// ClearAll flushes every key owned by the manager's helpers.
func (cm *CacheManager) ClearAll(ctx context.Context) error {
	if cm.client == nil {
		return nil
	}

	var lastErr error
	for _, helper := range []*CacheHelper{cm.Fast, cm.Contest, cm.User, cm.Assignment} {
		if err := helper.InvalidatePattern(ctx, "*"); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

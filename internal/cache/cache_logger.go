package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateContestCache drops every cached view of one contest.
func InvalidateContestCache(ctx context.Context, cm *CacheManager, contestID string) {
	SafeDelete(ctx, cm.Contest,
		fmt.Sprintf("id:%s", contestID),
		fmt.Sprintf("details:%s", contestID))
	SafeInvalidatePattern(ctx, cm.Contest, "list:*")
}

// InvalidateUserCache drops the cached user and profile projections.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID string) {
	SafeDelete(ctx, cm.User,
		fmt.Sprintf("id:%s", userID),
		fmt.Sprintf("profile:%s", userID))
}

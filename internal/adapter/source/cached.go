package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gitscout/internal/domain"
)

// CachedClient serves follower counts from a FollowerCache before hitting the network.
// Searches always go to the inner client.
type CachedClient struct {
	inner  domain.UserSearchClient
	cache  domain.FollowerCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedClient wraps inner with cache
func NewCachedClient(inner domain.UserSearchClient, cache domain.FollowerCache, ttl time.Duration, logger *slog.Logger) *CachedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClient{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedClient) Name() string { return c.inner.Name() }

func (c *CachedClient) SearchUsers(ctx context.Context, query string) ([]domain.BaseUser, error) {
	return c.inner.SearchUsers(ctx, query)
}

func (c *CachedClient) FetchFollowerCount(ctx context.Context, user domain.BaseUser) (int, error) {
	if n, ok := c.cache.GetFollowers(c.inner.Name(), user.Login, c.ttl); ok {
		c.logger.Debug("follower cache hit", "login", user.Login, "count", n)
		return n, nil
	}

	n, err := c.inner.FetchFollowerCount(ctx, user)
	if err != nil {
		return 0, err
	}

	if err := c.cache.SaveFollowers(c.inner.Name(), user.Login, n); err != nil {
		c.logger.Warn("failed to cache follower count", "login", user.Login, "error", err)
	}
	return n, nil
}

var _ domain.UserSearchClient = (*CachedClient)(nil)

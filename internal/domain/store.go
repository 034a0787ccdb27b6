package domain

import "time"

// FollowerCache stores follower counts between runs (BoltDB + memory).
type FollowerCache interface {
	// GetFollowers returns a cached count newer than maxAge
	GetFollowers(provider, login string, maxAge time.Duration) (int, bool)
	SaveFollowers(provider, login string, count int) error

	InvalidateAll() error
	Close() error
}

package domain

import "context"

// UserSearchClient provides user search and follower enrichment for one provider
type UserSearchClient interface {
	// Name returns the provider name used in logs and cache keys
	Name() string

	// SearchUsers returns users matching query in provider order.
	// Failures are reported as *SearchError.
	SearchUsers(ctx context.Context, query string) ([]BaseUser, error)

	// FetchFollowerCount returns the follower count for a single user.
	// Failures are reported as *EnrichmentError.
	FetchFollowerCount(ctx context.Context, user BaseUser) (int, error)
}

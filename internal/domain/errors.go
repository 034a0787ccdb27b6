package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations
var (
	// ErrServerOffline indicates the provider API is unreachable
	ErrServerOffline = errors.New("provider API is unreachable")

	// ErrUnauthorized indicates the configured token was rejected
	ErrUnauthorized = errors.New("authentication token is invalid")

	// ErrRateLimited indicates the provider refused the request due to rate limits
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrInvalidResponse indicates the provider returned a body that could not be decoded
	ErrInvalidResponse = errors.New("invalid response from provider")
)

// SearchError reports a failed user search
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// EnrichmentError reports a failed follower-count lookup for one user
type EnrichmentError struct {
	Login string
	Err   error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("follower count for %s: %v", e.Login, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

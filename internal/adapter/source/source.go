package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/gitscout/internal/adapter"
	"github.com/mmcdole/gitscout/internal/adapter/source/github"
	"github.com/mmcdole/gitscout/internal/adapter/source/linkedin"
	"github.com/mmcdole/gitscout/internal/domain"
)

// NewClient creates the UserSearchClient for the configured provider.
// This factory function abstracts away the specific backend implementation.
func NewClient(cfg *adapter.Config, userAgent string, logger *slog.Logger) (domain.UserSearchClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	switch cfg.Provider {
	case domain.ProviderGitHub:
		return github.NewClient(github.Options{
			BaseURL:   cfg.GitHub.BaseURL,
			Token:     cfg.GitHub.Token,
			PerPage:   cfg.GitHub.PerPage,
			RateLimit: cfg.GitHub.RateLimit,
			RateBurst: cfg.GitHub.RateBurst,
			UserAgent: userAgent,
		}, logger)

	case domain.ProviderLinkedIn:
		if cfg.LinkedIn.BaseURL == "" {
			return nil, fmt.Errorf("linkedin.base_url is required")
		}
		return linkedin.NewClient(cfg.LinkedIn.BaseURL, logger), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

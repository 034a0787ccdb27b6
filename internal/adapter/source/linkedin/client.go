// Package linkedin is a stub client for a LinkedIn-style people search.
// The default endpoint is fictitious; no real LinkedIn API is integrated.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gitscout/internal/domain"
)

const defaultTimeout = 15 * time.Second

// SearchResponse is the stub endpoint's body
type SearchResponse struct {
	Results []Person `json:"results"`
}

// Person is one stub search hit
type Person struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"` // Older single-field shape
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ProfileURL      string `json:"profileUrl"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// DisplayName joins first and last name, falling back to Name
func (p Person) DisplayName() string {
	if full := strings.TrimSpace(p.FirstName + " " + p.LastName); full != "" {
		return full
	}
	return strings.TrimSpace(p.Name)
}

// Client implements domain.UserSearchClient against the stub endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a stub client for endpoint
func NewClient(endpoint string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// Name returns the provider name
func (c *Client) Name() string { return string(domain.ProviderLinkedIn) }

// SearchUsers queries GET {endpoint}?q=query
func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.BaseUser, error) {
	reqURL := c.endpoint + "?" + url.Values{"q": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.SearchError{Query: query, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("linkedin request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.SearchError{Query: query, Err: ctx.Err()}
		}
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("%w: %v", domain.ErrServerOffline, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	var data SearchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)}
	}

	users := make([]domain.BaseUser, 0, len(data.Results))
	for _, p := range data.Results {
		users = append(users, domain.BaseUser{
			ID:        p.ID,
			Login:     p.DisplayName(),
			AvatarURL: p.ProfileImageURL,
			HTMLURL:   p.ProfileURL,
		})
	}
	return users, nil
}

// FetchFollowerCount always reports zero; the stub has no follower endpoint
func (c *Client) FetchFollowerCount(ctx context.Context, user domain.BaseUser) (int, error) {
	return 0, nil
}

var _ domain.UserSearchClient = (*Client)(nil)

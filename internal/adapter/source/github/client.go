package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gitscout/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	defaultPerPage = 30
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
	apiVersion     = "2022-11-28"
	maxErrorBody   = 512
)

// Options configures a Client
type Options struct {
	BaseURL   string
	Token     string
	PerPage   int
	RateLimit float64 // Requests per second, 0 = unlimited
	RateBurst int
	UserAgent string
}

// Client implements domain.UserSearchClient for the GitHub REST API
type Client struct {
	baseURL    *url.URL
	token      string
	perPage    int
	userAgent  string
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *slog.Logger

	retryDelay time.Duration
}

// NewClient creates a new GitHub API client
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid GitHub base URL %q", opts.BaseURL)
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > 100 {
		perPage = 100
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "gitscout"
	}

	return &Client{
		baseURL:   base,
		token:     opts.Token,
		perPage:   perPage,
		userAgent: userAgent,
		limiter:   limiter,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logger,
		retryDelay: baseRetryDelay,
	}, nil
}

// Name returns the provider name
func (c *Client) Name() string { return string(domain.ProviderGitHub) }

// SearchUsers queries GET /search/users
func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.BaseUser, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(c.perPage))

	reqURL := c.baseURL.JoinPath("search", "users")
	reqURL.RawQuery = params.Encode()

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, &domain.SearchError{Query: query, Err: err}
	}

	var resp SearchUsersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.SearchError{
			Query: query,
			Err:   fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err),
		}
	}
	if resp.IncompleteResults {
		c.logger.Warn("github search returned incomplete results", "query", query)
	}

	return MapUsers(resp.Items), nil
}

// FetchFollowerCount counts the entries listed at the user's followers URL.
// GitHub pages this listing, so the count covers the first page only.
func (c *Client) FetchFollowerCount(ctx context.Context, user domain.BaseUser) (int, error) {
	target := user.FollowersURL
	if target == "" {
		target = c.baseURL.JoinPath("users", user.Login, "followers").String()
	}

	reqURL, err := url.Parse(target)
	if err != nil {
		return 0, &domain.EnrichmentError{Login: user.Login, Err: err}
	}

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return 0, &domain.EnrichmentError{Login: user.Login, Err: err}
	}

	var followers []Follower
	if err := json.Unmarshal(body, &followers); err != nil {
		return 0, &domain.EnrichmentError{
			Login: user.Login,
			Err:   fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err),
		}
	}
	return len(followers), nil
}

// doRequest performs a GET against the GitHub API.
// Includes retry logic with exponential backoff for 5xx server errors
func (c *Client) doRequest(ctx context.Context, reqURL *url.URL) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Wait before retry (exponential backoff)
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", reqURL.String())
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", apiVersion)
		req.Header.Set("User-Agent", c.userAgent)
		// Only send the token to the configured API host
		if c.token != "" && strings.EqualFold(reqURL.Host, c.baseURL.Host) {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		c.logger.Debug("github request", "url", reqURL.String(), "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("github request failed", "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil

		case resp.StatusCode == http.StatusUnauthorized:
			return nil, domain.ErrUnauthorized

		case isRateLimited(resp):
			c.logger.Warn("github rate limit hit",
				"status", resp.StatusCode,
				"reset", resp.Header.Get("X-RateLimit-Reset"),
			)
			return nil, domain.ErrRateLimited

		case resp.StatusCode >= 500 && resp.StatusCode < 600:
			lastErr = fmt.Errorf("server error: %d - %s", resp.StatusCode, truncate(body))
			c.logger.Warn("github server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"url", reqURL.String(),
			)
			continue

		default:
			msg := truncate(body)
			var apiErr ErrorResponse
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
				msg = apiErr.Message
			}
			c.logger.Error("github request error", "status", resp.StatusCode, "message", msg)
			return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, msg)
		}
	}

	c.logger.Error("github request failed after retries", "error", lastErr, "url", reqURL.String())
	return nil, lastErr
}

// isRateLimited reports primary (remaining=0) and secondary (429) rate limits
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}

var _ domain.UserSearchClient = (*Client)(nil)

package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gitscout/internal/domain"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultPageSize       = 5
	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxConcurrency = 8
)

// Options configures a Controller. Zero values select defaults.
type Options struct {
	PageSize       int           // Rows per page, fixed for the controller's lifetime
	AutoFetch      bool          // Start a cycle on every query change
	RequestTimeout time.Duration // Bound on each network call
	MaxConcurrency int           // Parallel follower lookups per cycle
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = DefaultMaxConcurrency
	}
	return o
}

// Cycle identifies one search-then-enrich run
type Cycle struct {
	Seq   uint64
	Query string

	ctx context.Context
}

// Outcome describes how a cycle finished
type Outcome struct {
	Seq       uint64
	Query     string
	Committed bool  // False when a newer cycle superseded this one
	Count     int   // Records committed (0 on failure or empty query)
	Err       error // Logged failure, never surfaced as a UI error
}

// View is a read-only snapshot for the rendering layer
type View struct {
	Query         string
	ResultsQuery  string // Query that produced the committed results
	PageSlice     []domain.UserRecord
	CurrentPage   int
	PageSize      int
	Offset        int // Index of PageSlice[0] within the full result set
	Total         int
	Loading       bool
	Searched      bool // At least one cycle has committed
	CanGoNext     bool
	CanGoPrevious bool
}

// Controller owns the query, result set, current page and loading flag.
// All state transitions go through its methods; it is safe for use from
// multiple goroutines.
type Controller struct {
	client domain.UserSearchClient
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	query    string
	resQuery string
	results  []domain.UserRecord
	page     int
	loading  bool
	searched bool
	seq      uint64 // Latest issued cycle
	cancel   context.CancelFunc
}

// NewController creates a controller backed by client
func NewController(client domain.UserSearchClient, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		client:  client,
		opts:    opts.withDefaults(),
		logger:  logger,
		results: []domain.UserRecord{},
		page:    1,
	}
}

// PageSize returns the fixed page size
func (c *Controller) PageSize() int { return c.opts.PageSize }

// AutoFetch reports whether query changes start cycles
func (c *Controller) AutoFetch() bool { return c.opts.AutoFetch }

// Query returns the current query text
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetQuery updates the query text. In auto-fetch mode a new cycle is started
// and returned with ok=true; the caller runs it with Run.
func (c *Controller) SetQuery(text string) (Cycle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = text
	if !c.opts.AutoFetch {
		return Cycle{}, false
	}
	return c.beginLocked(), true
}

// Submit starts a cycle for the current query
func (c *Controller) Submit() Cycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginLocked()
}

// Fetch sets the query, then starts and runs a cycle synchronously
func (c *Controller) Fetch(ctx context.Context, query string) Outcome {
	c.mu.Lock()
	c.query = query
	cycle := c.beginLocked()
	c.mu.Unlock()

	return c.Run(ctx, cycle)
}

// beginLocked issues a new cycle and marks the controller loading.
// The previous cycle's context is cancelled; its results can no longer commit.
func (c *Controller) beginLocked() Cycle {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.seq++
	c.loading = true
	return Cycle{Seq: c.seq, Query: c.query, ctx: ctx}
}

// isLatest reports whether cycle is still the most recently issued one
func (c *Controller) isLatest(cycle Cycle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cycle.Seq == c.seq
}

// Run performs the network half of a cycle and commits its result if the
// cycle is still the latest. Errors collapse to an empty result set.
func (c *Controller) Run(ctx context.Context, cycle Cycle) Outcome {
	out := Outcome{Seq: cycle.Seq, Query: cycle.Query}

	if !c.isLatest(cycle) {
		c.logger.Debug("skipping superseded cycle", "seq", cycle.Seq, "query", cycle.Query)
		return out
	}

	if cycle.ctx != nil {
		var cancel context.CancelFunc
		ctx, cancel = mergeCancel(ctx, cycle.ctx)
		defer cancel()
	}

	records, err := c.fetch(ctx, cycle.Query)
	if err != nil {
		c.logger.Error("fetch cycle failed",
			"seq", cycle.Seq,
			"query", cycle.Query,
			"provider", c.client.Name(),
			"error", err,
		)
		records = []domain.UserRecord{}
		out.Err = err
	}

	out.Committed = c.commit(cycle, records)
	if out.Committed {
		out.Count = len(records)
	} else {
		c.logger.Debug("discarded stale cycle result", "seq", cycle.Seq, "query", cycle.Query)
	}
	return out
}

// fetch runs the search then enriches every hit concurrently.
// Either all follower counts arrive or the whole cycle fails.
func (c *Controller) fetch(ctx context.Context, query string) ([]domain.UserRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.UserRecord{}, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	users, err := c.client.SearchUsers(searchCtx, query)
	cancel()
	if err != nil {
		var searchErr *domain.SearchError
		if !errors.As(err, &searchErr) {
			err = &domain.SearchError{Query: query, Err: err}
		}
		return nil, err
	}

	counts := make([]int, len(users))
	p := pool.New().
		WithMaxGoroutines(c.opts.MaxConcurrency).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for i, u := range users {
		i, u := i, u
		p.Go(func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
			defer cancel()

			n, err := c.client.FetchFollowerCount(callCtx, u)
			if err != nil {
				var enrichErr *domain.EnrichmentError
				if !errors.As(err, &enrichErr) {
					err = &domain.EnrichmentError{Login: u.Login, Err: err}
				}
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	records := make([]domain.UserRecord, len(users))
	for i, u := range users {
		records[i] = domain.NewUserRecord(u, counts[i])
	}
	c.logger.Debug("fetch cycle complete", "query", query, "results", len(records))
	return records, nil
}

// commit publishes records if cycle is still the latest
func (c *Controller) commit(cycle Cycle, records []domain.UserRecord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cycle.Seq != c.seq {
		return false
	}
	c.results = records
	c.resQuery = cycle.Query
	c.page = 1
	c.loading = false
	c.searched = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return true
}

// NextPage advances one page when the current page is full and no cycle is in flight
func (c *Controller) NextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.canGoNextLocked() {
		return false
	}
	c.page++
	return true
}

// PreviousPage moves back one page; a no-op at page 1 or while loading
func (c *Controller) PreviousPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.canGoPreviousLocked() {
		return false
	}
	c.page--
	return true
}

func (c *Controller) canGoNextLocked() bool {
	return !c.loading && len(c.sliceLocked()) == c.opts.PageSize
}

func (c *Controller) canGoPreviousLocked() bool {
	return !c.loading && c.page > 1
}

func (c *Controller) sliceLocked() []domain.UserRecord {
	start, end := PageBounds(len(c.results), c.page, c.opts.PageSize)
	return c.results[start:end]
}

// View returns a consistent snapshot of the controller state
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, end := PageBounds(len(c.results), c.page, c.opts.PageSize)
	slice := make([]domain.UserRecord, end-start)
	copy(slice, c.results[start:end])

	return View{
		Query:         c.query,
		ResultsQuery:  c.resQuery,
		PageSlice:     slice,
		CurrentPage:   c.page,
		PageSize:      c.opts.PageSize,
		Offset:        start,
		Total:         len(c.results),
		Loading:       c.loading,
		Searched:      c.searched,
		CanGoNext:     c.canGoNextLocked(),
		CanGoPrevious: c.canGoPreviousLocked(),
	}
}

// Close cancels any in-flight cycle
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// PageBounds returns the [start, end) indexes of page within n results
func PageBounds(n, page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start > n {
		start = n
	}
	end := start + size
	if end > n {
		end = n
	}
	return start, end
}

// mergeCancel returns a context derived from parent that is also cancelled
// when other is done.
func mergeCancel(parent, other context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(other, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

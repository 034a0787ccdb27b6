package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/gitscout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient is a testify mock of domain.UserSearchClient
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Name() string { return "mock" }

func (m *MockClient) SearchUsers(ctx context.Context, query string) ([]domain.BaseUser, error) {
	args := m.Called(query)
	users, _ := args.Get(0).([]domain.BaseUser)
	return users, args.Error(1)
}

func (m *MockClient) FetchFollowerCount(ctx context.Context, user domain.BaseUser) (int, error) {
	args := m.Called(user.Login)
	return args.Int(0), args.Error(1)
}

// gatedClient blocks each search until its query's gate is released
type gatedClient struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	users   map[string][]domain.BaseUser
	started chan string
}

func newGatedClient() *gatedClient {
	return &gatedClient{
		gates:   make(map[string]chan struct{}),
		users:   make(map[string][]domain.BaseUser),
		started: make(chan string, 4),
	}
}

func (g *gatedClient) gate(query string, users []domain.BaseUser) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.gates[query] = ch
	g.users[query] = users
	return ch
}

func (g *gatedClient) Name() string { return "gated" }

func (g *gatedClient) SearchUsers(ctx context.Context, query string) ([]domain.BaseUser, error) {
	g.mu.Lock()
	ch := g.gates[query]
	users := g.users[query]
	g.mu.Unlock()
	g.started <- query
	if ch != nil {
		<-ch
	}
	return users, nil
}

func (g *gatedClient) FetchFollowerCount(ctx context.Context, user domain.BaseUser) (int, error) {
	return int(user.ID) * 10, nil
}

func makeUsers(n int) []domain.BaseUser {
	users := make([]domain.BaseUser, n)
	for i := range users {
		login := fmt.Sprintf("user%d", i+1)
		users[i] = domain.BaseUser{
			ID:           int64(i + 1),
			Login:        login,
			HTMLURL:      "https://github.com/" + login,
			FollowersURL: "https://api.github.com/users/" + login + "/followers",
		}
	}
	return users
}

func expectFollowers(m *MockClient, users []domain.BaseUser) {
	for _, u := range users {
		m.On("FetchFollowerCount", u.Login).Return(int(u.ID)*10, nil)
	}
}

func TestController_EmptyQueryMakesNoNetworkCall(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", q), func(t *testing.T) {
			client := &MockClient{}
			c := NewController(client, Options{PageSize: 5}, nil)

			out := c.Fetch(context.Background(), q)

			assert.True(t, out.Committed)
			assert.NoError(t, out.Err)
			v := c.View()
			assert.Empty(t, v.PageSlice)
			assert.Equal(t, 0, v.Total)
			assert.False(t, v.Loading)
			client.AssertNotCalled(t, "SearchUsers", mock.Anything)
		})
	}
}

func TestController_OctocatScenario(t *testing.T) {
	client := &MockClient{}
	users := makeUsers(7)
	client.On("SearchUsers", "octocat").Return(users, nil)
	expectFollowers(client, users)

	c := NewController(client, Options{PageSize: 5}, nil)
	out := c.Fetch(context.Background(), "octocat")
	require.True(t, out.Committed)
	require.NoError(t, out.Err)
	assert.Equal(t, 7, out.Count)

	v := c.View()
	assert.Equal(t, 1, v.CurrentPage)
	assert.Len(t, v.PageSlice, 5)
	assert.True(t, v.CanGoNext)
	assert.False(t, v.CanGoPrevious)
	assert.Equal(t, "user1", v.PageSlice[0].Login)
	assert.Equal(t, 10, v.PageSlice[0].Followers)

	require.True(t, c.NextPage())
	v = c.View()
	assert.Equal(t, 2, v.CurrentPage)
	assert.Len(t, v.PageSlice, 2)
	assert.Equal(t, 5, v.Offset)
	assert.False(t, v.CanGoNext)
	assert.True(t, v.CanGoPrevious)
	assert.Equal(t, "user6", v.PageSlice[0].Login)

	assert.False(t, c.NextPage(), "next page must be disabled on a short page")
	require.True(t, c.PreviousPage())
	assert.Equal(t, 1, c.View().CurrentPage)
	assert.False(t, c.PreviousPage(), "previous page must be disabled at page 1")
	assert.Equal(t, 1, c.View().CurrentPage)
}

func TestController_PreservesSearchOrder(t *testing.T) {
	client := &MockClient{}
	users := makeUsers(12)
	client.On("SearchUsers", "go").Return(users, nil)
	expectFollowers(client, users)

	c := NewController(client, Options{PageSize: 20, MaxConcurrency: 3}, nil)
	c.Fetch(context.Background(), "go")

	v := c.View()
	require.Len(t, v.PageSlice, 12)
	for i, r := range v.PageSlice {
		assert.Equal(t, users[i].Login, r.Login)
		assert.Equal(t, int(users[i].ID)*10, r.Followers)
	}
}

func TestController_NewResultSetResetsPage(t *testing.T) {
	client := &MockClient{}
	first := makeUsers(11)
	client.On("SearchUsers", "a").Return(first, nil)
	client.On("SearchUsers", "b").Return(makeUsers(6), nil)
	expectFollowers(client, first)

	c := NewController(client, Options{PageSize: 5}, nil)
	c.Fetch(context.Background(), "a")
	require.True(t, c.NextPage())
	require.True(t, c.NextPage())
	require.Equal(t, 3, c.View().CurrentPage)

	c.Fetch(context.Background(), "b")
	v := c.View()
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, 6, v.Total)
}

func TestController_SearchFailureCollapsesToEmpty(t *testing.T) {
	client := &MockClient{}
	users := makeUsers(3)
	client.On("SearchUsers", "ok").Return(users, nil)
	client.On("SearchUsers", "boom").Return(nil, domain.ErrServerOffline)
	expectFollowers(client, users)

	c := NewController(client, Options{PageSize: 5}, nil)
	c.Fetch(context.Background(), "ok")
	require.Equal(t, 3, c.View().Total)

	out := c.Fetch(context.Background(), "boom")
	assert.True(t, out.Committed)
	var searchErr *domain.SearchError
	require.ErrorAs(t, out.Err, &searchErr)
	assert.ErrorIs(t, out.Err, domain.ErrServerOffline)
	assert.Equal(t, "boom", searchErr.Query)

	v := c.View()
	assert.Equal(t, 0, v.Total)
	assert.False(t, v.Loading)
	assert.False(t, v.CanGoNext)
	// Only the three lookups from the successful search; none for "boom"
	client.AssertNumberOfCalls(t, "FetchFollowerCount", 3)
}

func TestController_EnrichmentFailureCommitsNothing(t *testing.T) {
	client := &MockClient{}
	users := makeUsers(3)
	client.On("SearchUsers", "trio").Return(users, nil)
	client.On("FetchFollowerCount", "user1").Return(4, nil).Maybe()
	client.On("FetchFollowerCount", "user2").Return(0, errors.New("boom"))
	client.On("FetchFollowerCount", "user3").Return(9, nil).Maybe()

	c := NewController(client, Options{PageSize: 5}, nil)
	out := c.Fetch(context.Background(), "trio")

	assert.True(t, out.Committed)
	var enrichErr *domain.EnrichmentError
	require.ErrorAs(t, out.Err, &enrichErr)
	assert.Equal(t, "user2", enrichErr.Login)

	v := c.View()
	assert.Empty(t, v.PageSlice)
	assert.Equal(t, 0, v.Total)
	assert.False(t, v.Loading)
}

func TestController_StaleCycleDoesNotOverwrite(t *testing.T) {
	client := newGatedClient()
	gateX := client.gate("x", makeUsers(7))
	gateY := client.gate("y", makeUsers(2))

	c := NewController(client, Options{PageSize: 5, AutoFetch: true}, nil)

	cycleA, ok := c.SetQuery("x")
	require.True(t, ok)

	doneA := make(chan Outcome, 1)
	go func() { doneA <- c.Run(context.Background(), cycleA) }()
	require.Equal(t, "x", <-client.started)

	// B is issued, completes and commits while A is still blocked
	cycleB, ok := c.SetQuery("y")
	require.True(t, ok)
	require.Greater(t, cycleB.Seq, cycleA.Seq)

	close(gateY)
	outB := c.Run(context.Background(), cycleB)
	require.True(t, outB.Committed)
	require.Equal(t, 2, c.View().Total)

	close(gateX)
	select {
	case outA := <-doneA:
		assert.False(t, outA.Committed)
	case <-time.After(2 * time.Second):
		t.Fatal("stale cycle never finished")
	}

	v := c.View()
	assert.Equal(t, "y", v.Query)
	assert.Equal(t, 2, v.Total)
	assert.False(t, v.Loading)
}

func TestController_SupersededCycleSkipsNetwork(t *testing.T) {
	client := &MockClient{}
	users := makeUsers(1)
	client.On("SearchUsers", "new").Return(users, nil)
	expectFollowers(client, users)

	c := NewController(client, Options{AutoFetch: true}, nil)
	old, _ := c.SetQuery("old")
	latest, _ := c.SetQuery("new")

	outOld := c.Run(context.Background(), old)
	assert.False(t, outOld.Committed)
	client.AssertNotCalled(t, "SearchUsers", "old")

	outNew := c.Run(context.Background(), latest)
	assert.True(t, outNew.Committed)
	assert.Equal(t, 1, c.View().Total)
}

func TestController_LoadingDisablesPagination(t *testing.T) {
	client := &MockClient{}
	users := makeUsers(10)
	client.On("SearchUsers", "ten").Return(users, nil)
	expectFollowers(client, users)

	c := NewController(client, Options{PageSize: 5}, nil)
	c.Fetch(context.Background(), "ten")
	require.True(t, c.NextPage())

	// An issued but unfinished cycle keeps the controller loading
	c.Submit()
	v := c.View()
	assert.True(t, v.Loading)
	assert.False(t, v.CanGoNext)
	assert.False(t, v.CanGoPrevious)
	assert.False(t, c.PreviousPage())
	assert.False(t, c.NextPage())
	assert.Equal(t, 2, v.CurrentPage)
}

func TestController_SubmitVariantOnlyStoresDraft(t *testing.T) {
	client := &MockClient{}
	c := NewController(client, Options{}, nil)

	_, ok := c.SetQuery("draft")
	assert.False(t, ok)
	assert.Equal(t, "draft", c.Query())
	assert.False(t, c.View().Loading)
	client.AssertNotCalled(t, "SearchUsers", mock.Anything)
}

func TestController_TimeoutCountsAsFailure(t *testing.T) {
	client := &slowClient{delay: time.Second}
	c := NewController(client, Options{RequestTimeout: 20 * time.Millisecond}, nil)

	out := c.Fetch(context.Background(), "slow")
	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, context.DeadlineExceeded)
	assert.Equal(t, 0, c.View().Total)
	assert.False(t, c.View().Loading)
}

type slowClient struct {
	delay time.Duration
}

func (s *slowClient) Name() string { return "slow" }

func (s *slowClient) SearchUsers(ctx context.Context, query string) ([]domain.BaseUser, error) {
	select {
	case <-time.After(s.delay):
		return makeUsers(1), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *slowClient) FetchFollowerCount(ctx context.Context, user domain.BaseUser) (int, error) {
	return 0, nil
}

func TestPagination_Properties(t *testing.T) {
	tests := []struct {
		n, p, page int
		wantLen    int
		wantNext   bool
		wantPrev   bool
	}{
		{n: 0, p: 5, page: 1, wantLen: 0, wantNext: false, wantPrev: false},
		{n: 3, p: 5, page: 1, wantLen: 3, wantNext: false, wantPrev: false},
		{n: 5, p: 5, page: 1, wantLen: 5, wantNext: true, wantPrev: false},
		{n: 5, p: 5, page: 2, wantLen: 0, wantNext: false, wantPrev: true},
		{n: 17, p: 8, page: 2, wantLen: 8, wantNext: true, wantPrev: true},
		{n: 17, p: 8, page: 3, wantLen: 1, wantNext: false, wantPrev: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d/p=%d/page=%d", tt.n, tt.p, tt.page), func(t *testing.T) {
			client := &MockClient{}
			users := makeUsers(tt.n)
			client.On("SearchUsers", "q").Return(users, nil)
			expectFollowers(client, users)

			c := NewController(client, Options{PageSize: tt.p}, nil)
			c.Fetch(context.Background(), "q")
			for i := 1; i < tt.page; i++ {
				require.True(t, c.NextPage())
			}

			v := c.View()
			want := min(tt.p, max(0, tt.n-(v.CurrentPage-1)*tt.p))
			assert.Equal(t, want, len(v.PageSlice))
			assert.Equal(t, tt.wantLen, len(v.PageSlice))
			assert.Equal(t, tt.wantNext, v.CanGoNext)
			assert.Equal(t, tt.wantPrev, v.CanGoPrevious)
		})
	}
}

func TestPageBounds(t *testing.T) {
	start, end := PageBounds(7, 2, 5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 7, end)

	start, end = PageBounds(7, 4, 5)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)

	start, end = PageBounds(7, 0, 5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)
}

func TestController_ViewTracksResultsQuery(t *testing.T) {
	client := &MockClient{}
	users := makeUsers(2)
	client.On("SearchUsers", "user").Return(users, nil)
	expectFollowers(client, users)

	c := NewController(client, Options{PageSize: 5}, nil)
	c.Fetch(context.Background(), "user")

	// Editing the draft leaves the committed results' query alone
	c.SetQuery("something else")
	v := c.View()
	assert.Equal(t, "something else", v.Query)
	assert.Equal(t, "user", v.ResultsQuery)
	assert.Len(t, v.PageSlice, 2)
}

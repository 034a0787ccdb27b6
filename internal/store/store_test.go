package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowerStore_MemoryOnly(t *testing.T) {
	s, err := NewFollowerStore("")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.GetFollowers("github", "octocat", 0)
	assert.False(t, ok)

	require.NoError(t, s.SaveFollowers("github", "Octocat", 42))
	n, ok := s.GetFollowers("github", "octocat", 0)
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = s.GetFollowers("linkedin", "octocat", 0)
	assert.False(t, ok, "providers must not share entries")
}

func TestFollowerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFollowerStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveFollowers("github", "octocat", 7))
	require.NoError(t, s.Close())

	s, err = NewFollowerStore(dir)
	require.NoError(t, err)
	defer s.Close()

	n, ok := s.GetFollowers("github", "octocat", time.Hour)
	assert.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestFollowerStore_Expiry(t *testing.T) {
	s, err := NewFollowerStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	base := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return base }
	require.NoError(t, s.SaveFollowers("github", "octocat", 3))

	s.now = func() time.Time { return base.Add(30 * time.Minute) }
	_, ok := s.GetFollowers("github", "octocat", time.Hour)
	assert.True(t, ok)

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, ok = s.GetFollowers("github", "octocat", time.Hour)
	assert.False(t, ok)

	_, ok = s.GetFollowers("github", "octocat", 0)
	assert.True(t, ok, "zero max age never expires")
}

func TestFollowerStore_InvalidateAll(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFollowerStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.SaveFollowers("github", "a", 1))
	require.NoError(t, s.SaveFollowers("github", "b", 2))
	require.NoError(t, s.InvalidateAll())

	_, ok := s.GetFollowers("github", "a", 0)
	assert.False(t, ok)
	require.NoError(t, s.Close())

	s, err = NewFollowerStore(dir)
	require.NoError(t, err)
	defer s.Close()
	_, ok = s.GetFollowers("github", "b", 0)
	assert.False(t, ok)
}

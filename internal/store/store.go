package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gitscout/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketFollowers = []byte("followers")

// followerEntry is the persisted form of one cached count
type followerEntry struct {
	Count     int   `json:"count"`
	FetchedAt int64 `json:"fetched_at"` // Unix seconds
}

// FollowerStore implements domain.FollowerCache using BoltDB.
type FollowerStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string]followerEntry

	now func() time.Time
}

// NewFollowerStore opens the cache under dir. An empty dir keeps the cache in memory only.
func NewFollowerStore(dir string) (*FollowerStore, error) {
	s := &FollowerStore{cache: make(map[string]followerEntry), now: time.Now}
	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "gitscout.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFollowers)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func (s *FollowerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func followerKey(provider, login string) string {
	return provider + ":" + strings.ToLower(login)
}

// GetFollowers returns a cached count no older than maxAge (0 = never expires)
func (s *FollowerStore) GetFollowers(provider, login string, maxAge time.Duration) (int, bool) {
	key := followerKey(provider, login)

	entry, ok := s.lookup(key)
	if !ok {
		return 0, false
	}
	if maxAge > 0 && s.now().Sub(time.Unix(entry.FetchedAt, 0)) > maxAge {
		return 0, false
	}
	return entry.Count, true
}

func (s *FollowerStore) lookup(key string) (followerEntry, bool) {
	// Check memory cache first
	s.mu.RLock()
	if entry, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return entry, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return followerEntry{}, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFollowers)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return followerEntry{}, false
	}

	var entry followerEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return followerEntry{}, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = entry
	s.mu.Unlock()

	return entry, true
}

// SaveFollowers records count for login, stamped with the current time
func (s *FollowerStore) SaveFollowers(provider, login string, count int) error {
	key := followerKey(provider, login)
	entry := followerEntry{Count: count, FetchedAt: s.now().Unix()}

	s.mu.Lock()
	s.cache[key] = entry
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFollowers).Put([]byte(key), data)
	})
}

// InvalidateAll drops every cached count
func (s *FollowerStore) InvalidateAll() error {
	s.mu.Lock()
	s.cache = make(map[string]followerEntry)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketFollowers); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketFollowers)
		return err
	})
}

var _ domain.FollowerCache = (*FollowerStore)(nil)

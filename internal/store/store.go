package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/lector/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketRecent = []byte("recent")
)

// dbFileName is the BoltDB file created inside the store directory
const dbFileName = "lector.db"

// RecentStore implements domain.RecentStore using BoltDB.
type RecentStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
	warm  map[string]bool // buckets fully promoted into cache
}

// NewRecentStore opens (or creates) the history database in dir.
// An empty dir gives a memory-only store.
func NewRecentStore(dir string) (*RecentStore, error) {
	if dir == "" {
		// Memory-only mode (no persistence)
		return &RecentStore{cache: make(map[string][]byte), warm: make(map[string]bool)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecent)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &RecentStore{db: db, cache: make(map[string][]byte), warm: make(map[string]bool)}, nil
}

func (s *RecentStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Persistent reports whether entries survive a restart
func (s *RecentStore) Persistent() bool {
	return s.db != nil
}

// === Generic helpers ===

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *RecentStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.db != nil {
		err = s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey(bucket, key)] = data
	s.mu.Unlock()
	return nil
}

func (s *RecentStore) delete(bucket []byte, key string) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
			if b == nil {
				return nil
			}
			return b.Delete([]byte(key))
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	delete(s.cache, cacheKey(bucket, key))
	s.mu.Unlock()
	return nil
}

// all returns every raw value in bucket. The first read of a bucket is
// promoted from the database into the memory cache; later reads are served
// from the cache, which set and delete keep in step with the database.
func (s *RecentStore) all(bucket []byte) (map[string][]byte, error) {
	s.mu.RLock()
	cached := s.db == nil || s.warm[string(bucket)]
	s.mu.RUnlock()
	if cached {
		return s.cached(bucket), nil
	}

	out := make(map[string][]byte)

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			data := make([]byte, len(v))
			copy(data, v)
			out[string(k)] = data
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for k, v := range out {
		s.cache[cacheKey(bucket, k)] = v
	}
	s.warm[string(bucket)] = true
	s.mu.Unlock()

	return out, nil
}

// cached copies the memory cache entries of bucket
func (s *RecentStore) cached(bucket []byte) map[string][]byte {
	out := make(map[string][]byte)
	prefix := string(bucket) + ":"
	s.mu.RLock()
	for k, v := range s.cache {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	s.mu.RUnlock()
	return out
}

// === Recent files ===

// GetRecent returns all entries, newest first. Undecodable entries are skipped.
func (s *RecentStore) GetRecent() ([]domain.RecentFile, error) {
	raw, err := s.all(bucketRecent)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.RecentFile, 0, len(raw))
	for _, data := range raw {
		var entry domain.RecentFile
		if json.Unmarshal(data, &entry) != nil {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LoadedAt.Equal(entries[j].LoadedAt) {
			return entries[i].Path < entries[j].Path
		}
		return entries[i].LoadedAt.After(entries[j].LoadedAt)
	})
	return entries, nil
}

// SaveRecent inserts or replaces the entry for entry.Path
func (s *RecentStore) SaveRecent(entry domain.RecentFile) error {
	if entry.Path == "" {
		return fmt.Errorf("recent entry has no path")
	}
	return s.set(bucketRecent, entry.Path, entry)
}

// RemoveRecent deletes the entry for path, if any
func (s *RecentStore) RemoveRecent(path string) error {
	return s.delete(bucketRecent, path)
}

// Trim keeps the newest keep entries. keep <= 0 removes nothing.
func (s *RecentStore) Trim(keep int) error {
	if keep <= 0 {
		return nil
	}
	entries, err := s.GetRecent()
	if err != nil {
		return err
	}
	for _, e := range entries[min(keep, len(entries)):] {
		if err := s.delete(bucketRecent, e.Path); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every entry
func (s *RecentStore) Clear() error {
	if s.db != nil {
		// Recreate the bucket; deleting under a live cursor skips keys
		err := s.db.Update(func(tx *bolt.Tx) error {
			if err := tx.DeleteBucket(bucketRecent); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			_, err := tx.CreateBucket(bucketRecent)
			return err
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.warm = map[string]bool{string(bucketRecent): true}
	s.mu.Unlock()
	return nil
}

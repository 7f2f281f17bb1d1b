package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPages   = []byte("pages")
	bucketMovies  = []byte("movies")
	bucketSession = []byte("session")

	allBuckets = [][]byte{bucketPages, bucketMovies, bucketSession}
)

const keyLastLocation = "last_location"

// entry wraps cached values with the time they were stored
type entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Data     json.RawMessage `json:"data"`
}

// CatalogStore implements domain.Store using BoltDB.
// Pages and movies expire after the TTL; session values never expire.
type CatalogStore struct {
	db  *bolt.DB
	ttl time.Duration // 0 disables expiry
	now func() time.Time

	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.Store = (*CatalogStore)(nil)

// NewCatalogStore opens the cache for a provider under baseCacheDir.
// An empty baseCacheDir gives a memory-only store.
func NewCatalogStore(baseCacheDir, providerURL string, ttl time.Duration) (*CatalogStore, error) {
	s := &CatalogStore{ttl: ttl, now: time.Now, cache: make(map[string][]byte)}
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return s, nil
	}

	dir := baseCacheDir
	if providerURL != "" {
		dir = filepath.Join(baseCacheDir, hashProviderURL(providerURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "reel.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func hashProviderURL(providerURL string) string {
	normalized := strings.TrimRight(strings.ToLower(providerURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *CatalogStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *CatalogStore) get(bucket []byte, key string, expires bool, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	data, ok := s.cache[cacheKey]
	s.mu.RUnlock()

	if !ok {
		if s.db == nil {
			return false
		}

		// Read from BoltDB
		s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
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
			return false
		}

		// Promote to memory cache
		s.mu.Lock()
		s.cache[cacheKey] = data
		s.mu.Unlock()
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if expires && s.ttl > 0 && s.now().Sub(e.StoredAt) > s.ttl {
		s.delete(bucket, key)
		return false
	}
	return json.Unmarshal(e.Data, dest) == nil
}

func (s *CatalogStore) set(bucket []byte, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{StoredAt: s.now(), Data: raw})
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	// Write to BoltDB
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *CatalogStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	// Clear from memory cache
	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Delete from BoltDB
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *CatalogStore) clearBuckets(buckets ...[]byte) {
	// Clear from memory cache
	s.mu.Lock()
	for _, bucket := range buckets {
		prefix := string(bucket) + ":"
		for k := range s.cache {
			if strings.HasPrefix(k, prefix) {
				delete(s.cache, k)
			}
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		// Drop and recreate rather than deleting while iterating a cursor
		for _, bucket := range buckets {
			if tx.Bucket(bucket) != nil {
				if err := tx.DeleteBucket(bucket); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Pages (keyed by canonical query) ===

func (s *CatalogStore) GetPage(key string) (domain.QueryResult, bool) {
	var result domain.QueryResult
	ok := s.get(bucketPages, "q:"+key, true, &result)
	return result, ok
}

func (s *CatalogStore) SavePage(key string, result domain.QueryResult) error {
	return s.set(bucketPages, "q:"+key, result)
}

// === Movies ===

func (s *CatalogStore) GetMovie(id int) (*domain.MovieDetail, bool) {
	var detail domain.MovieDetail
	if !s.get(bucketMovies, strconv.Itoa(id), true, &detail) {
		return nil, false
	}
	return &detail, true
}

func (s *CatalogStore) SaveMovie(detail *domain.MovieDetail) error {
	if detail == nil {
		return nil
	}
	return s.set(bucketMovies, strconv.Itoa(detail.ID), detail)
}

// === Session ===

func (s *CatalogStore) LastLocation() (string, bool) {
	var loc string
	ok := s.get(bucketSession, keyLastLocation, false, &loc)
	return loc, ok && loc != ""
}

func (s *CatalogStore) SaveLastLocation(loc string) error {
	return s.set(bucketSession, keyLastLocation, loc)
}

// === Invalidation ===

func (s *CatalogStore) InvalidatePages() {
	s.clearBuckets(bucketPages)
}

func (s *CatalogStore) InvalidateMovie(id int) {
	s.delete(bucketMovies, strconv.Itoa(id))
}

func (s *CatalogStore) InvalidateAll() {
	s.clearBuckets(allBuckets...)
}

// Package cache provides the TTL key-value store used to short-circuit
// repeated search and detail queries. The store is strictly an
// optimization layer: entries carry their own expiry and are never treated
// as more current than the database.
package cache

import (
	"log"
	"sync"
	"time"
)

// Cache is the capability the services depend on. The in-memory Store is
// the default implementation; a networked cache can be swapped in without
// touching callers.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
	Delete(key string)
}

// Store is an in-memory TTL cache with LRU-style eviction.
type Store struct {
	entries    map[string]*entry
	mutex      sync.RWMutex
	maxEntries int
	stats      Stats
}

type entry struct {
	value        string
	expiresAt    time.Time
	lastAccessed time.Time
}

// Stats tracks cache performance.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	mutex     sync.RWMutex
}

// NewStore creates an in-memory cache holding up to maxEntries values and
// starts a background sweep for expired entries.
func NewStore(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	s := &Store{
		entries:    make(map[string]*entry),
		maxEntries: maxEntries,
	}

	go s.cleanupExpired()

	return s
}

// Get retrieves a value if present and not expired.
func (s *Store) Get(key string) (string, bool) {
	s.mutex.RLock()
	e, found := s.entries[key]
	s.mutex.RUnlock()

	if !found {
		s.recordMiss()
		return "", false
	}

	if time.Now().After(e.expiresAt) {
		s.mutex.Lock()
		delete(s.entries, key)
		s.mutex.Unlock()
		s.recordMiss()
		s.recordEviction()
		return "", false
	}

	s.mutex.Lock()
	e.lastAccessed = time.Now()
	s.mutex.Unlock()

	s.recordHit()
	return e.value, true
}

// Set stores a value with the given TTL.
func (s *Store) Set(key, value string, ttl time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldest()
	}

	s.entries[key] = &entry{
		value:        value,
		expiresAt:    time.Now().Add(ttl),
		lastAccessed: time.Now(),
	}
}

// Delete removes a key if present.
func (s *Store) Delete(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.entries, key)
}

// evictOldest removes the least recently used entry. Caller holds the lock.
func (s *Store) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, e := range s.entries {
		if oldestKey == "" || e.lastAccessed.Before(oldestTime) {
			oldestKey = key
			oldestTime = e.lastAccessed
		}
	}

	if oldestKey != "" {
		delete(s.entries, oldestKey)
		s.recordEviction()
		log.Printf("🗑️  Evicted oldest cache entry: %s", oldestKey)
	}
}

// cleanupExpired periodically removes expired entries.
func (s *Store) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for key, e := range s.entries {
			if now.After(e.expiresAt) {
				delete(s.entries, key)
				s.recordEviction()
			}
		}
		s.mutex.Unlock()
	}
}

func (s *Store) recordHit() {
	s.stats.mutex.Lock()
	defer s.stats.mutex.Unlock()
	s.stats.Hits++
}

func (s *Store) recordMiss() {
	s.stats.mutex.Lock()
	defer s.stats.mutex.Unlock()
	s.stats.Misses++
}

func (s *Store) recordEviction() {
	s.stats.mutex.Lock()
	defer s.stats.mutex.Unlock()
	s.stats.Evictions++
}

// GetStats returns a snapshot of cache statistics.
func (s *Store) GetStats() map[string]interface{} {
	s.stats.mutex.RLock()
	defer s.stats.mutex.RUnlock()

	s.mutex.RLock()
	size := len(s.entries)
	s.mutex.RUnlock()

	hitRate := 0.0
	total := s.stats.Hits + s.stats.Misses
	if total > 0 {
		hitRate = float64(s.stats.Hits) / float64(total) * 100
	}

	return map[string]interface{}{
		"cache_size":  size,
		"max_entries": s.maxEntries,
		"hits":        s.stats.Hits,
		"misses":      s.stats.Misses,
		"hit_rate":    hitRate,
		"evictions":   s.stats.Evictions,
	}
}

package solver

import (
	"math"
	"sync"

	"github.com/bastiangx/wordjumble/pkg/dictionary"
	"github.com/charmbracelet/log"
)

type cacheEntry struct {
	idx     *dictionary.Index
	phrases []Phrase
}

// ResultCache keeps recent final-jumble results, evicting the least
// recently used entry when full. Entries computed against another Index
// than the one asked about are treated as misses.
type ResultCache struct {
	entries     map[string]cacheEntry
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		entries:    make(map[string]cacheEntry, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func (rc *ResultCache) Get(idx *dictionary.Index, key string) ([]Phrase, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	entry, ok := rc.entries[key]
	if !ok || entry.idx != idx {
		rc.misses++
		return nil, false
	}
	rc.hits++
	rc.markAccessed(key)
	return clonePhrases(entry.phrases), true
}

func (rc *ResultCache) Put(idx *dictionary.Index, key string, phrases []Phrase) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, exists := rc.entries[key]; !exists && len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.entries[key] = cacheEntry{idx: idx, phrases: clonePhrases(phrases)}
	rc.markAccessed(key)
}

func (rc *ResultCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

func (rc *ResultCache) Stats() map[string]int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cacheEntries":    len(rc.entries),
		"maxCacheEntries": rc.maxEntries,
		"cacheHits":       int(rc.hits),
		"cacheMisses":     int(rc.misses),
	}
}

func (rc *ResultCache) markAccessed(key string) {
	rc.accessCount++
	rc.accessTime[key] = rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64

	for key, accessTime := range rc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(rc.entries, oldestKey)
		delete(rc.accessTime, oldestKey)
		log.Debugf("Evicted '%s' from result cache", oldestKey)
	}
}

func clonePhrases(phrases []Phrase) []Phrase {
	out := make([]Phrase, len(phrases))
	for i, p := range phrases {
		out[i] = append(Phrase(nil), p...)
	}
	return out
}

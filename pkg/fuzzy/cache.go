package fuzzy

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// hotCacheSize bounds the LRU tier sitting in front of the cold map.
	hotCacheSize = 100
	// promoteAfter is how many cold-tier accesses graduate an entry
	// into the hot tier.
	promoteAfter = 5
)

// cacheKey hashes a (prefix, include-distance-2) query.
func cacheKey(prefix string, includeDistance2 bool) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(prefix)
	flag := byte(0)
	if includeDistance2 {
		flag = 1
	}
	_, _ = d.Write([]byte{flag})
	return d.Sum64()
}

// coldEntry pairs a candidate list with its access counter.
type coldEntry struct {
	words []string
	hits  atomic.Int64
}

// candidateCache is the two-tier cache in front of candidate generation.
// The hot tier is a small LRU for prefixes that keep coming back; the
// cold tier is a concurrent map holding everything recently generated.
type candidateCache struct {
	hot  *lru.Cache[uint64, []string]
	cold sync.Map // uint64 -> *coldEntry
}

func newCandidateCache() *candidateCache {
	hot, _ := lru.New[uint64, []string](hotCacheSize)
	return &candidateCache{hot: hot}
}

// get returns a copy of a cached candidate list. Hot hits refresh
// recency; cold hits bump the access counter and promote the entry once
// it has been asked for more than promoteAfter times.
func (c *candidateCache) get(key uint64) ([]string, bool) {
	if words, ok := c.hot.Get(key); ok {
		return cloneWords(words), true
	}
	v, ok := c.cold.Load(key)
	if !ok {
		return nil, false
	}
	entry := v.(*coldEntry)
	if entry.hits.Add(1) > promoteAfter && !c.hot.Contains(key) {
		c.hot.Add(key, entry.words)
	}
	return cloneWords(entry.words), true
}

// put stores a fresh result in the cold tier with one recorded access.
func (c *candidateCache) put(key uint64, words []string) {
	entry := &coldEntry{words: words}
	entry.hits.Store(1)
	c.cold.Store(key, entry)
}

func (c *candidateCache) lens() (hot, cold int) {
	hot = c.hot.Len()
	c.cold.Range(func(_, _ any) bool {
		cold++
		return true
	})
	return hot, cold
}

// cloneWords keeps cached slices out of callers' hands; callers append
// to and re-slice what they get back.
func cloneWords(words []string) []string {
	return append([]string(nil), words...)
}

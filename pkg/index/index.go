/*
Package index owns the searchable side of the engine: a patricia trie
over the vocabulary and the frequency store used to rank its matches.
Both are replaced wholesale on rebuild, never mutated in place, so a
query always observes a complete index. A bounded LRU keyed by prefix
caches ranked results between rebuilds.
*/
package index

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/veldt/typeahead/internal/utils"
	"github.com/veldt/typeahead/pkg/dictionary"
)

const (
	// DefaultRebuildCooldown suppresses rebuilds that arrive less than
	// an hour after the last successful one.
	DefaultRebuildCooldown = time.Hour
	// defaultCacheSize bounds the prefix-result LRU.
	defaultCacheSize = 1000
)

// Stats describes the installed index.
type Stats struct {
	Words          int
	CachedPrefixes int
	LastBuild      time.Time
}

// Manager builds and serves the prefix index. Construct with NewManager
// and share one instance; all methods are safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	trie      *patricia.Trie
	freqs     *FrequencyStore
	wordCount int
	lastBuild time.Time

	// buildMu serializes Initialize calls so concurrent rebuild
	// requests do not race each other through the cooldown check.
	buildMu sync.Mutex

	cache    *lru.Cache[string, []string]
	cooldown time.Duration
}

// NewManager creates an empty manager. A cooldown of zero or less
// disables the rebuild recency guard; cacheSize of zero or less picks
// the default.
func NewManager(cooldown time.Duration, cacheSize int) *Manager {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, _ := lru.New[string, []string](cacheSize)
	return &Manager{
		freqs:    NewFrequencyStore(),
		cache:    cache,
		cooldown: cooldown,
	}
}

// Initialize streams the ranked source into a fresh trie and frequency
// map, then installs both atomically and purges the prefix cache. While
// the index is Ready, calls inside the cooldown window are silent
// no-ops. A failed build leaves any previously installed index serving.
func (m *Manager) Initialize(ctx context.Context, source dictionary.RankedSource) error {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	m.mu.RLock()
	lastBuild := m.lastBuild
	m.mu.RUnlock()
	if !lastBuild.IsZero() && m.cooldown > 0 && time.Since(lastBuild) < m.cooldown {
		log.Debugf("Skipping index rebuild, last build was %v ago", time.Since(lastBuild).Round(time.Second))
		return nil
	}

	start := time.Now()
	trie := patricia.NewTrie()
	freqs := make(map[string]int64)
	count := 0
	err := source.StreamRanked(ctx, func(word string, freq int64) error {
		trie.Insert(patricia.Prefix(word), freq)
		freqs[word] = freq
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	m.mu.Lock()
	m.trie = trie
	m.freqs.Replace(freqs)
	m.wordCount = count
	m.lastBuild = time.Now()
	m.mu.Unlock()

	m.cache.Purge()
	log.Debugf("Index built with %d words in %v", count, time.Since(start))
	return nil
}

// Initialized reports whether a successful build has installed a trie.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trie != nil
}

// FindByPrefix returns up to limit words sharing the prefix, most
// frequent first. A limit of zero or less means unbounded. Returned
// slices may be shared with the cache; callers must not modify them.
func (m *Manager) FindByPrefix(prefix string, limit int) []string {
	if cached, ok := m.cache.Get(prefix); ok {
		if limit > 0 && len(cached) > limit {
			return cached[:limit]
		}
		return cached
	}

	m.mu.RLock()
	if m.trie == nil {
		m.mu.RUnlock()
		return nil
	}
	type ranked struct {
		word string
		freq int64
	}
	var matches []ranked
	_ = m.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		word := string(p)
		matches = append(matches, ranked{word: word, freq: m.freqs.Lookup(word)})
		return nil
	})
	m.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].freq > matches[j].freq
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]string, len(matches))
	for i, match := range matches {
		results[i] = match.word
	}

	m.cache.Add(prefix, results)
	return results
}

// FindRespectingCase looks up the lower-cased prefix and, when the
// typed prefix began upper-case, capitalizes the first letter of every
// result. It does not title-case or restore any other casing pattern.
func (m *Manager) FindRespectingCase(prefix string, limit int) []string {
	results := m.FindByPrefix(strings.ToLower(prefix), limit)

	if !utils.FirstRuneUpper(prefix) {
		return results
	}
	capped := make([]string, len(results))
	for i, word := range results {
		capped[i] = utils.CapitalizeFirst(word)
	}
	return capped
}

// Frequency returns the stored rank for a word, zero when absent.
func (m *Manager) Frequency(word string) int64 {
	return m.freqs.Lookup(word)
}

// Stats describes the currently installed index.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Words:          m.wordCount,
		CachedPrefixes: m.cache.Len(),
		LastBuild:      m.lastBuild,
	}
}

/*
Package fuzzy synthesizes candidate words within edit distance 1 or 2 of
a typed prefix. Candidates are not guaranteed to be real words; callers
rank them against a frequency source afterward.

Generation favors edits that preserve what the user already typed:
suffix completions first, then insertions at any position, while
substitutions and deletions only touch the back half of the word. ASCII
prefixes take a byte-level path parallelized over index chunks; anything
else falls back to a sequential rune-level sweep. Results are memoized
in a two-tier cache keyed by (prefix, distance flag).
*/
package fuzzy

import (
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

const (
	// maxPrefixBytes is a cost guard: longer prefixes return nothing.
	maxPrefixBytes = 20
	// maxResults bounds one generation run.
	maxResults = 1000
	// distance2BatchSize is how many sampled words each distance-2
	// worker expands.
	distance2BatchSize = 5
)

// Generator owns the candidate cache and scratch buffers. Construct one
// per process (or per test) with NewGenerator; the zero value is not
// usable.
type Generator struct {
	cache *candidateCache
	bufs  sync.Pool
}

// NewGenerator returns a Generator with empty caches.
func NewGenerator() *Generator {
	return &Generator{
		cache: newCandidateCache(),
		bufs: sync.Pool{
			New: func() any {
				buf := make([]byte, 0, 64)
				return &buf
			},
		},
	}
}

// Candidates returns deduplicated strings near the prefix, ordered so
// words still starting with the prefix come first, shorter before
// longer. The result always contains the prefix itself, never exceeds
// 1000 entries, and is empty for prefixes longer than 20 bytes. An
// empty prefix bootstraps to the single-letter alphabet. Generation is
// total: there is no error path.
func (g *Generator) Candidates(prefix string, includeDistance2 bool) []string {
	key := cacheKey(prefix, includeDistance2)
	if words, ok := g.cache.get(key); ok {
		return words
	}

	if prefix == "" {
		return alphabetStrings()
	}
	if len(prefix) > maxPrefixBytes {
		return nil
	}

	set := make(map[string]struct{}, setCapacity(len(prefix), includeDistance2))
	set[prefix] = struct{}{}

	if isASCII(prefix) {
		g.suffixCompletionsASCII(prefix, set)
		g.distance1ASCII(prefix, set)
	} else {
		suffixCompletionsUnicode(prefix, set)
		distance1Unicode(prefix, set)
	}

	if includeDistance2 {
		g.expandDistance2(prefix, set)
	}

	result := make([]string, 0, len(set))
	for word := range set {
		result = append(result, word)
	}
	sortCandidates(prefix, result)
	if len(result) > maxResults {
		result = result[:maxResults]
	}

	// Length-1 prefixes are cheaper to regenerate than to cache, and
	// huge result sets for long prefixes are not worth the memory.
	if len(result) > 0 && len(prefix) > 1 && (len(prefix) <= 5 || len(result) < 500) {
		g.cache.put(key, result)
	}
	return result
}

// Stats reports cache tier sizes.
func (g *Generator) Stats() map[string]int {
	hot, cold := g.cache.lens()
	return map[string]int{
		"hot_entries":  hot,
		"cold_entries": cold,
	}
}

// setCapacity sizes the working set up front so the common prefixes
// never rehash mid-generation.
func setCapacity(prefixLen int, includeDistance2 bool) int {
	if includeDistance2 {
		switch {
		case prefixLen <= 2:
			return 600
		case prefixLen <= 5:
			return 1200
		default:
			return 2000
		}
	}
	switch {
	case prefixLen <= 2:
		return 160
	case prefixLen <= 5:
		return 360
	default:
		return 500
	}
}

func alphabetStrings() []string {
	letters := make([]string, 0, 26)
	for c := byte('a'); c <= 'z'; c++ {
		letters = append(letters, string(c))
	}
	return letters
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// suffixCompletionsASCII appends each letter of the alphabet to the
// prefix. These are the highest-value candidates since they keep the
// typed prefix intact.
func (g *Generator) suffixCompletionsASCII(prefix string, set map[string]struct{}) {
	bufp := g.bufs.Get().(*[]byte)
	buf := append((*bufp)[:0], prefix...)
	buf = append(buf, 0)
	n := len(prefix)
	for c := byte('a'); c <= 'z'; c++ {
		buf[n] = c
		set[string(buf)] = struct{}{}
	}
	*bufp = buf
	g.bufs.Put(bufp)
}

func suffixCompletionsUnicode(prefix string, set map[string]struct{}) {
	for c := byte('a'); c <= 'z'; c++ {
		set[prefix+string(c)] = struct{}{}
	}
}

// chunkSizeFor grows the per-worker index range with prefix length so
// goroutine overhead stays amortized for short sweeps.
func chunkSizeFor(wordLen int) int {
	switch {
	case wordLen <= 3:
		return 1
	case wordLen <= 7:
		return 2
	default:
		return 3
	}
}

// distance1ASCII sweeps byte-level edits in parallel over index chunks
// and merges each worker's local set into set. Insertions cover every
// position; substitutions and deletions start at max(len/2, 1) so the
// front half of the word survives untouched.
func (g *Generator) distance1ASCII(prefix string, set map[string]struct{}) {
	n := len(prefix)
	chunk := chunkSizeFor(n)
	modifyStart := max(n/2, 1)

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))

	merge := func(local map[string]struct{}) {
		mu.Lock()
		for word := range local {
			set[word] = struct{}{}
		}
		mu.Unlock()
	}

	for lo := 0; lo <= n; lo += chunk {
		lo, hi := lo, min(lo+chunk-1, n)
		eg.Go(func() error {
			local := make(map[string]struct{}, (hi-lo+1)*26)
			g.insertionsASCII(prefix, lo, hi, local)
			merge(local)
			return nil
		})
	}
	for lo := modifyStart; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk-1, n-1)
		eg.Go(func() error {
			local := make(map[string]struct{}, (hi-lo+1)*26)
			g.substitutionsASCII(prefix, lo, hi, local)
			g.deletionsASCII(prefix, lo, hi, local)
			merge(local)
			return nil
		})
	}
	_ = eg.Wait()
}

// insertionsASCII inserts every letter at positions lo..hi inclusive.
func (g *Generator) insertionsASCII(prefix string, lo, hi int, out map[string]struct{}) {
	bufp := g.bufs.Get().(*[]byte)
	buf := *bufp
	for i := lo; i <= hi; i++ {
		buf = append(buf[:0], prefix[:i]...)
		buf = append(buf, 0)
		buf = append(buf, prefix[i:]...)
		for c := byte('a'); c <= 'z'; c++ {
			buf[i] = c
			out[string(buf)] = struct{}{}
		}
	}
	*bufp = buf
	g.bufs.Put(bufp)
}

// substitutionsASCII replaces the byte at positions lo..hi with every
// other letter, skipping the character already there.
func (g *Generator) substitutionsASCII(prefix string, lo, hi int, out map[string]struct{}) {
	bufp := g.bufs.Get().(*[]byte)
	buf := append((*bufp)[:0], prefix...)
	for i := lo; i <= hi; i++ {
		original := prefix[i]
		for c := byte('a'); c <= 'z'; c++ {
			if c == original {
				continue
			}
			buf[i] = c
			out[string(buf)] = struct{}{}
		}
		buf[i] = original
	}
	*bufp = buf
	g.bufs.Put(bufp)
}

func (g *Generator) deletionsASCII(prefix string, lo, hi int, out map[string]struct{}) {
	bufp := g.bufs.Get().(*[]byte)
	buf := *bufp
	for i := lo; i <= hi; i++ {
		buf = append(buf[:0], prefix[:i]...)
		buf = append(buf, prefix[i+1:]...)
		out[string(buf)] = struct{}{}
	}
	*bufp = buf
	g.bufs.Put(bufp)
}

// distance1Unicode is the sequential rune-level path for non-ASCII
// prefixes. Multi-byte encoding makes chunked buffer reuse more trouble
// than the sweep is worth.
func distance1Unicode(prefix string, set map[string]struct{}) {
	runes := []rune(prefix)
	n := len(runes)
	modifyStart := max(n/2, 1)

	for i := 0; i <= n; i++ {
		for c := 'a'; c <= 'z'; c++ {
			word := make([]rune, 0, n+1)
			word = append(word, runes[:i]...)
			word = append(word, c)
			word = append(word, runes[i:]...)
			set[string(word)] = struct{}{}
		}
	}
	for i := modifyStart; i < n; i++ {
		original := runes[i]
		for c := 'a'; c <= 'z'; c++ {
			if c == original {
				continue
			}
			word := make([]rune, 0, n)
			word = append(word, runes[:i]...)
			word = append(word, c)
			word = append(word, runes[i+1:]...)
			set[string(word)] = struct{}{}
		}
	}
	for i := modifyStart; i < n; i++ {
		word := make([]rune, 0, n-1)
		word = append(word, runes[:i]...)
		word = append(word, runes[i+1:]...)
		set[string(word)] = struct{}{}
	}
}

// distance2SampleSize shrinks how many words get expanded as the
// prefix grows; at the 20-byte limit no distance-2 work happens at all.
func distance2SampleSize(prefixLen int) int {
	return int(20.0 * (1.0 - float32(prefixLen)/20.0))
}

// expandDistance2 suffix-completes a bounded sample of distance-1 words
// that kept the prefix, or at least its first character. Distance 2 is
// strictly "kept the prefix, plus one more letter", not a second full
// edit pass, which keeps the blow-up a controlled multiple instead of
// O(26*n) squared.
func (g *Generator) expandDistance2(prefix string, set map[string]struct{}) {
	sample := distance2SampleSize(len(prefix))
	if sample <= 0 {
		return
	}
	_, size := utf8.DecodeRuneInString(prefix)
	firstChar := prefix[:size]

	baseWords := make([]string, 0, sample*2)
	for word := range set {
		if strings.HasPrefix(word, prefix) || strings.HasPrefix(word, firstChar) {
			baseWords = append(baseWords, word)
		}
	}
	// Sample under the output ordering so repeated calls expand the
	// same words; map iteration order must not leak into results.
	sortCandidates(prefix, baseWords)
	if len(baseWords) > sample {
		baseWords = baseWords[:sample]
	}

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for start := 0; start < len(baseWords); start += distance2BatchSize {
		batch := baseWords[start:min(start+distance2BatchSize, len(baseWords))]
		eg.Go(func() error {
			local := make(map[string]struct{}, len(batch)*26)
			for _, base := range batch {
				if isASCII(base) {
					g.suffixCompletionsASCII(base, local)
				} else {
					suffixCompletionsUnicode(base, local)
				}
			}
			mu.Lock()
			for word := range local {
				set[word] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
}

// sortCandidates orders words so those still starting with the prefix
// come first, ties broken by ascending length then alphabetically. The
// final tiebreak keeps truncation deterministic.
func sortCandidates(prefix string, words []string) {
	sort.Slice(words, func(i, j int) bool {
		a, b := words[i], words[j]
		aStarts := strings.HasPrefix(a, prefix)
		bStarts := strings.HasPrefix(b, prefix)
		if aStarts != bStarts {
			return aStarts
		}
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
}

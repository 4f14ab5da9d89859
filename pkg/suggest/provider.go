package suggest

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/veldt/typeahead/internal/utils"
)

// Defaults for the provider knobs; all three are config-tunable.
const (
	DefaultTrieLimit     = 5
	DefaultFallbackLimit = 5
	DefaultMaxCandidates = 100
)

// Options tunes a Provider. Zero fields pick the package defaults.
type Options struct {
	// TrieLimit is the result count requested from the prefix index.
	TrieLimit int
	// FallbackLimit is the result count of the generate-and-rank path.
	FallbackLimit int
	// MaxCandidates caps how many synthesized candidates reach the
	// frequency ranker.
	MaxCandidates int
}

// Provider orchestrates one suggestion pipeline. Each provider carries
// its own (last prefix, last results) cache; share one instance per
// client session. All methods are safe for concurrent use.
type Provider struct {
	index  PrefixIndex
	gen    CandidateSource
	ranker FrequencyRanker

	trieLimit     int
	fallbackLimit int
	maxCandidates int

	// mu guards the extension cache only and is never held across an
	// index, generator or ranker call.
	mu          sync.Mutex
	lastPrefix  string
	lastResults []string
}

// NewProvider wires the three collaborators into a facade.
func NewProvider(index PrefixIndex, gen CandidateSource, ranker FrequencyRanker, opts Options) *Provider {
	if opts.TrieLimit <= 0 {
		opts.TrieLimit = DefaultTrieLimit
	}
	if opts.FallbackLimit <= 0 {
		opts.FallbackLimit = DefaultFallbackLimit
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	return &Provider{
		index:         index,
		gen:           gen,
		ranker:        ranker,
		trieLimit:     opts.TrieLimit,
		fallbackLimit: opts.FallbackLimit,
		maxCandidates: opts.MaxCandidates,
	}
}

// FindWordsByPrefix returns ranked suggestions for a prefix, nil when
// nothing plausible exists. Matching is case-insensitive; results come
// back lower-case. Per-query failures degrade to nil instead of
// propagating: a missing suggestion is not fatal to the caller.
func (p *Provider) FindWordsByPrefix(ctx context.Context, prefix string) []string {
	if prefix == "" {
		return nil
	}
	lower := strings.ToLower(prefix)

	if results := p.extendLast(lower); len(results) > 0 {
		return results
	}

	if p.index.Initialized() {
		if results := p.index.FindByPrefix(lower, p.trieLimit); len(results) > 0 {
			p.remember(lower, results)
			return results
		}
	}

	candidates := p.gen.Candidates(lower, true)
	// The raw prefix rides along even past the generator's length guard.
	candidates = append(candidates, lower)
	if len(candidates) > p.maxCandidates {
		candidates = candidates[:p.maxCandidates]
	}

	results, err := p.ranker.TopByFrequency(ctx, candidates, p.fallbackLimit)
	if err != nil {
		log.Warnf("Fallback frequency filter failed: %v", err)
		p.forget()
		return nil
	}
	if len(results) == 0 {
		p.forget()
		return nil
	}
	p.remember(lower, results)
	return results
}

// FindRespectingCase is FindWordsByPrefix plus first-letter
// capitalization when the typed prefix began upper-case.
func (p *Provider) FindRespectingCase(ctx context.Context, prefix string) []string {
	results := p.FindWordsByPrefix(ctx, prefix)
	if !utils.FirstRuneUpper(prefix) {
		return results
	}
	capped := make([]string, len(results))
	for i, word := range results {
		capped[i] = utils.CapitalizeFirst(word)
	}
	return capped
}

// extendLast serves the common "typed one more character" pattern from
// the previous result set without touching the index or generator. The
// refiltered set replaces the cached one on success.
func (p *Provider) extendLast(lower string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastPrefix == "" || len(p.lastResults) == 0 {
		return nil
	}
	if lower == p.lastPrefix || !strings.HasPrefix(lower, p.lastPrefix) {
		return nil
	}
	var filtered []string
	for _, word := range p.lastResults {
		if utils.HasPrefixIgnoreCase(word, lower) {
			filtered = append(filtered, word)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	p.lastPrefix = lower
	p.lastResults = filtered
	return filtered
}

func (p *Provider) remember(prefix string, results []string) {
	p.mu.Lock()
	p.lastPrefix = prefix
	p.lastResults = results
	p.mu.Unlock()
}

// forget drops the extension cache so the next query starts from
// scratch; empty results are never cached.
func (p *Provider) forget() {
	p.mu.Lock()
	p.lastPrefix = ""
	p.lastResults = nil
	p.mu.Unlock()
}

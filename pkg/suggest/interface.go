// Package suggest is the external-facing facade of the engine: it tries
// the prefix index first, falls back to synthesized candidates ranked
// against a frequency source, and keeps a short-lived extension cache
// for the type-one-more-character access pattern.
package suggest

import "context"

// PrefixIndex is the ranked prefix lookup the facade tries first.
type PrefixIndex interface {
	// Initialized reports whether a lookup is worth attempting.
	Initialized() bool

	// FindByPrefix returns up to limit words sharing the prefix, most
	// frequent first.
	FindByPrefix(prefix string, limit int) []string
}

// CandidateSource synthesizes words near a prefix when the index has
// nothing useful.
type CandidateSource interface {
	// Candidates returns deduplicated strings within edit distance 1
	// (and 2 when requested) of the prefix.
	Candidates(prefix string, includeDistance2 bool) []string
}

// FrequencyRanker keeps only the candidates that are real words, most
// frequent first.
type FrequencyRanker interface {
	// TopByFrequency returns up to limit members of candidates present
	// in the backing store, ordered by descending frequency.
	TopByFrequency(ctx context.Context, candidates []string, limit int) ([]string, error)
}

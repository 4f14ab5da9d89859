/*
Package dictionary provides ranked word sources for the suggestion engine.

A source supplies (word, frequency) pairs in descending frequency order
for index builds, and ranks bounded candidate lists for the fallback
path. Two on-disk layouts are supported: a SQLite database with a
word_frequencies table, and a directory of binary dictionary chunks.
An in-memory source backs tests and ad-hoc word lists.
*/
package dictionary

import (
	"context"
	"errors"
	"sort"
)

// ErrSourceUnavailable marks a ranked word source that could not be
// opened or streamed. Index builds abort on it and keep serving any
// previously installed state.
var ErrSourceUnavailable = errors.New("dictionary source unavailable")

// Entry is a single ranked word.
type Entry struct {
	Word      string
	Frequency int64
}

// RankedSource supplies ranked words for index builds and fallback ranking.
type RankedSource interface {
	// StreamRanked calls fn for every word in descending frequency
	// order. A non-nil error from fn stops the stream and is returned
	// unchanged.
	StreamRanked(ctx context.Context, fn func(word string, freq int64) error) error
	// TopByFrequency returns up to limit members of candidates that are
	// present in the source, most frequent first. Unknown candidates are
	// ignored.
	TopByFrequency(ctx context.Context, candidates []string, limit int) ([]string, error)
	Close() error
}

// topByFrequency ranks the candidates present in freqs. Shared by the
// in-memory backends; the SQLite source pushes the same ordering into SQL.
func topByFrequency(freqs map[string]int64, candidates []string, limit int) []string {
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(candidates))
	matched := make([]Entry, 0, limit)
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if freq, ok := freqs[c]; ok {
			matched = append(matched, Entry{Word: c, Frequency: freq})
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Frequency != matched[j].Frequency {
			return matched[i].Frequency > matched[j].Frequency
		}
		return matched[i].Word < matched[j].Word
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	words := make([]string, len(matched))
	for i, e := range matched {
		words[i] = e.Word
	}
	return words
}

// sortRanked orders entries by descending frequency, ties alphabetical.
func sortRanked(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Frequency != entries[j].Frequency {
			return entries[i].Frequency > entries[j].Frequency
		}
		return entries[i].Word < entries[j].Word
	})
}

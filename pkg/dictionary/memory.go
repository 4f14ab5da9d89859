package dictionary

import (
	"context"
)

// MemorySource is a RankedSource backed by a plain word list. It exists
// for tests and for callers that assemble small vocabularies by hand.
// Add all words before handing the source to the engine; Add is not
// safe to call concurrently with reads.
type MemorySource struct {
	entries []Entry
	freqs   map[string]int64
	sorted  bool
}

// NewMemorySource returns an empty source.
func NewMemorySource() *MemorySource {
	return &MemorySource{freqs: make(map[string]int64)}
}

// Add records a word with its frequency and returns the source so word
// lists can be built up in one expression. Re-adding a word overwrites
// its frequency.
func (m *MemorySource) Add(word string, freq int64) *MemorySource {
	if word == "" {
		return m
	}
	if _, exists := m.freqs[word]; exists {
		for i := range m.entries {
			if m.entries[i].Word == word {
				m.entries[i].Frequency = freq
				break
			}
		}
	} else {
		m.entries = append(m.entries, Entry{Word: word, Frequency: freq})
	}
	m.freqs[word] = freq
	m.sorted = false
	return m
}

// Len reports how many words the source holds.
func (m *MemorySource) Len() int {
	return len(m.entries)
}

// StreamRanked iterates the word list, most frequent first.
func (m *MemorySource) StreamRanked(ctx context.Context, fn func(word string, freq int64) error) error {
	if !m.sorted {
		sortRanked(m.entries)
		m.sorted = true
	}
	for _, e := range m.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(e.Word, e.Frequency); err != nil {
			return err
		}
	}
	return nil
}

// TopByFrequency ranks candidates against the in-memory frequency map.
func (m *MemorySource) TopByFrequency(ctx context.Context, candidates []string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return topByFrequency(m.freqs, candidates, limit), nil
}

// Close is a no-op.
func (m *MemorySource) Close() error {
	return nil
}

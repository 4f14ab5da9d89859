package index

import "sync"

// FrequencyStore maps words to integer ranks; higher means more common.
// It is populated wholesale per index build and read-shared afterward.
type FrequencyStore struct {
	mu    sync.RWMutex
	freqs map[string]int64
}

// NewFrequencyStore returns an empty store.
func NewFrequencyStore() *FrequencyStore {
	return &FrequencyStore{freqs: make(map[string]int64)}
}

// Lookup returns a word's frequency, zero when the word is unknown.
func (s *FrequencyStore) Lookup(word string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freqs[word]
}

// Replace installs a freshly built map, dropping the old one.
func (s *FrequencyStore) Replace(freqs map[string]int64) {
	s.mu.Lock()
	s.freqs = freqs
	s.mu.Unlock()
}

// Len reports how many words have a recorded frequency.
func (s *FrequencyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.freqs)
}

package index

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/veldt/typeahead/pkg/dictionary"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	src := dictionary.NewMemorySource().
		Add("apple", 300).
		Add("app", 50).
		Add("apply", 10)
	m := NewManager(0, 0)
	if err := m.Initialize(context.Background(), src); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return m
}

func TestFindByPrefixRanked(t *testing.T) {
	m := testManager(t)

	got := m.FindByPrefix("app", 5)
	want := []string{"apple", "app", "apply"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := m.FindByPrefix("appl", 5); !reflect.DeepEqual(got, []string{"apple", "apply"}) {
		t.Errorf("expected [apple apply], got %v", got)
	}
	if got := m.FindByPrefix("zzz", 5); len(got) != 0 {
		t.Errorf("expected nothing for unknown prefix, got %v", got)
	}
}

func TestFindByPrefixLimit(t *testing.T) {
	m := testManager(t)

	got := m.FindByPrefix("app", 2)
	want := []string{"apple", "app"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// cached entries hold the truncated list; a tighter limit re-slices it
// and a looser one gets whatever was cached
func TestFindByPrefixCachedTruncation(t *testing.T) {
	m := testManager(t)

	first := m.FindByPrefix("app", 2)
	if len(first) != 2 {
		t.Fatalf("expected 2 results, got %v", first)
	}
	if m.Stats().CachedPrefixes != 1 {
		t.Errorf("expected 1 cached prefix, got %d", m.Stats().CachedPrefixes)
	}

	narrower := m.FindByPrefix("app", 1)
	if len(narrower) != 1 || narrower[0] != "apple" {
		t.Errorf("expected [apple], got %v", narrower)
	}

	unbounded := m.FindByPrefix("app", 0)
	if len(unbounded) != 2 {
		t.Errorf("cached entry was built with limit 2, got %v", unbounded)
	}
}

func TestFindRespectingCase(t *testing.T) {
	m := testManager(t)

	tests := []struct {
		description string
		prefix      string
		expected    []string
	}{
		{
			description: "lowercase prefix stays lowercase",
			prefix:      "ap",
			expected:    []string{"apple", "app", "apply"},
		},
		{
			description: "capitalized prefix capitalizes results",
			prefix:      "Ap",
			expected:    []string{"Apple", "App", "Apply"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := m.FindRespectingCase(tt.prefix, 5)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestManagerBeforeInitialize(t *testing.T) {
	m := NewManager(0, 0)

	if m.Initialized() {
		t.Error("fresh manager should not report initialized")
	}
	if got := m.FindByPrefix("app", 5); got != nil {
		t.Errorf("expected nil before initialization, got %v", got)
	}
	if f := m.Frequency("apple"); f != 0 {
		t.Errorf("expected zero frequency before initialization, got %d", f)
	}
}

func TestInitializeCooldown(t *testing.T) {
	srcA := dictionary.NewMemorySource().Add("apple", 300)
	srcB := dictionary.NewMemorySource().Add("banana", 200)

	m := NewManager(time.Hour, 0)
	if err := m.Initialize(context.Background(), srcA); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}

	// second build lands inside the cooldown window and is a no-op
	if err := m.Initialize(context.Background(), srcB); err != nil {
		t.Fatalf("cooldown skip should not error: %v", err)
	}
	if got := m.FindByPrefix("banana", 5); len(got) != 0 {
		t.Errorf("cooldown skip should keep the old index, got %v", got)
	}
	if got := m.FindByPrefix("apple", 5); len(got) != 1 {
		t.Errorf("old index should keep serving, got %v", got)
	}
	if m.Stats().Words != 1 {
		t.Errorf("expected 1 word from the first build, got %d", m.Stats().Words)
	}
}

func TestRebuildReplacesIndex(t *testing.T) {
	srcA := dictionary.NewMemorySource().Add("apple", 300).Add("banana", 200)
	srcB := dictionary.NewMemorySource().Add("apple", 10).Add("avocado", 500)

	m := NewManager(0, 0)
	if err := m.Initialize(context.Background(), srcA); err != nil {
		t.Fatal(err)
	}
	if got := m.FindByPrefix("a", 0); !reflect.DeepEqual(got, []string{"apple"}) {
		t.Fatalf("expected [apple], got %v", got)
	}

	if err := m.Initialize(context.Background(), srcB); err != nil {
		t.Fatal(err)
	}
	// the prefix cache was purged, so the new ranking shows up
	got := m.FindByPrefix("a", 0)
	want := []string{"avocado", "apple"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v after rebuild, got %v", want, got)
	}
	if f := m.Frequency("apple"); f != 10 {
		t.Errorf("expected updated frequency 10, got %d", f)
	}
	if f := m.Frequency("banana"); f != 0 {
		t.Errorf("banana should be gone after rebuild, got %d", f)
	}
}

type failingSource struct{}

func (failingSource) StreamRanked(ctx context.Context, fn func(word string, freq int64) error) error {
	return fmt.Errorf("%w: disk fell over", dictionary.ErrSourceUnavailable)
}

func (failingSource) TopByFrequency(ctx context.Context, candidates []string, limit int) ([]string, error) {
	return nil, dictionary.ErrSourceUnavailable
}

func (failingSource) Close() error { return nil }

func TestFailedBuildKeepsOldIndex(t *testing.T) {
	m := testManager(t)
	before := m.Stats()

	err := m.Initialize(context.Background(), failingSource{})
	if !errors.Is(err, dictionary.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}

	if !m.Initialized() {
		t.Error("failed rebuild should keep the old index installed")
	}
	if got := m.FindByPrefix("app", 5); len(got) != 3 {
		t.Errorf("old index should keep serving, got %v", got)
	}
	after := m.Stats()
	if after.Words != before.Words {
		t.Errorf("word count changed across failed build: %d -> %d", before.Words, after.Words)
	}
	if !after.LastBuild.Equal(before.LastBuild) {
		t.Error("failed build should not touch the build timestamp")
	}
}

func TestFrequency(t *testing.T) {
	m := testManager(t)

	if f := m.Frequency("apple"); f != 300 {
		t.Errorf("expected 300, got %d", f)
	}
	if f := m.Frequency("nope"); f != 0 {
		t.Errorf("expected 0 for unknown word, got %d", f)
	}
}

func TestStats(t *testing.T) {
	m := testManager(t)

	s := m.Stats()
	if s.Words != 3 {
		t.Errorf("expected 3 words, got %d", s.Words)
	}
	if s.LastBuild.IsZero() {
		t.Error("expected a build timestamp")
	}
	if s.CachedPrefixes != 0 {
		t.Errorf("expected no cached prefixes yet, got %d", s.CachedPrefixes)
	}

	m.FindByPrefix("app", 5)
	if m.Stats().CachedPrefixes != 1 {
		t.Errorf("expected 1 cached prefix, got %d", m.Stats().CachedPrefixes)
	}
}

// queries racing a rebuild must always observe one complete index,
// whichever of the two it is
func TestConcurrentQueriesDuringRebuild(t *testing.T) {
	srcA := dictionary.NewMemorySource().Add("apple", 300).Add("appendix", 100)
	srcB := dictionary.NewMemorySource().Add("appendix", 300).Add("apple", 100)

	m := NewManager(0, 0)
	if err := m.Initialize(context.Background(), srcA); err != nil {
		t.Fatal(err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got := m.FindByPrefix("app", 0)
				if len(got) != 2 {
					t.Errorf("torn result %v", got)
					return
				}
				if got[0] != "apple" && got[0] != "appendix" {
					t.Errorf("unexpected ranking %v", got)
					return
				}
			}
		}()
	}

	for i := 0; i < 25; i++ {
		src := srcA
		if i%2 == 0 {
			src = srcB
		}
		if err := m.Initialize(context.Background(), src); err != nil {
			t.Errorf("rebuild failed: %v", err)
		}
	}
	close(stop)
	wg.Wait()
}

func BenchmarkFindByPrefix(b *testing.B) {
	src := dictionary.NewMemorySource()
	for i := 0; i < 1000; i++ {
		src.Add(fmt.Sprintf("word%04d", i), int64(i))
	}
	m := NewManager(0, 0)
	if err := m.Initialize(context.Background(), src); err != nil {
		b.Fatal(err)
	}
	prefixes := []string{"w", "wo", "wor", "word", "word0"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.FindByPrefix(prefixes[i%len(prefixes)], 10)
	}
}

func TestFrequencyStore(t *testing.T) {
	s := NewFrequencyStore()
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
	if f := s.Lookup("apple"); f != 0 {
		t.Errorf("expected 0 for unknown word, got %d", f)
	}

	s.Replace(map[string]int64{"apple": 300, "app": 50})
	if s.Len() != 2 {
		t.Errorf("expected 2 words, got %d", s.Len())
	}
	if f := s.Lookup("apple"); f != 300 {
		t.Errorf("expected 300, got %d", f)
	}

	s.Replace(map[string]int64{"banana": 7})
	if f := s.Lookup("apple"); f != 0 {
		t.Errorf("replace should drop old words, got %d", f)
	}
}

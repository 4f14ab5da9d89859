package fuzzy

import (
	"reflect"
	"testing"
)

func TestCacheKey(t *testing.T) {
	if cacheKey("ab", false) == cacheKey("ab", true) {
		t.Error("distance flag should produce distinct keys")
	}
	if cacheKey("ab", false) != cacheKey("ab", false) {
		t.Error("same query should hash to the same key")
	}
	if cacheKey("ab", false) == cacheKey("ba", false) {
		t.Error("different prefixes should hash to distinct keys")
	}
}

func TestCacheMissThenHit(t *testing.T) {
	c := newCandidateCache()
	key := cacheKey("ab", false)

	if _, ok := c.get(key); ok {
		t.Error("expected a miss on an empty cache")
	}

	words := []string{"ab", "aba", "abb"}
	c.put(key, words)

	got, ok := c.get(key)
	if !ok {
		t.Fatal("expected a hit after put")
	}
	if !reflect.DeepEqual(got, words) {
		t.Errorf("expected %v, got %v", words, got)
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	c := newCandidateCache()
	key := cacheKey("ab", false)
	c.put(key, []string{"ab", "aba"})

	first, _ := c.get(key)
	first[0] = "junk"

	second, _ := c.get(key)
	if second[0] != "ab" {
		t.Errorf("mutation leaked into the cache: got %q", second[0])
	}
}

func TestCachePromotionThreshold(t *testing.T) {
	c := newCandidateCache()
	key := cacheKey("ab", false)
	c.put(key, []string{"ab"})

	// put records one access; promotion needs the counter past 5
	for i := 0; i < 4; i++ {
		c.get(key)
	}
	if hot, _ := c.lens(); hot != 0 {
		t.Errorf("expected cold entry after 4 reads, hot tier has %d", hot)
	}

	c.get(key)
	if hot, _ := c.lens(); hot != 1 {
		t.Errorf("expected promotion on the 5th read, hot tier has %d", hot)
	}

	// the entry stays readable after promotion
	got, ok := c.get(key)
	if !ok || got[0] != "ab" {
		t.Errorf("expected hot hit, got %v ok=%v", got, ok)
	}
}

func TestCacheLens(t *testing.T) {
	c := newCandidateCache()
	if hot, cold := c.lens(); hot != 0 || cold != 0 {
		t.Errorf("expected empty cache, got hot=%d cold=%d", hot, cold)
	}

	c.put(cacheKey("ab", false), []string{"ab"})
	c.put(cacheKey("cd", false), []string{"cd"})
	c.put(cacheKey("cd", true), []string{"cd", "cda"})

	if hot, cold := c.lens(); hot != 0 || cold != 3 {
		t.Errorf("expected 3 cold entries, got hot=%d cold=%d", hot, cold)
	}
}

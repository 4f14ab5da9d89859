package dictionary

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// ChunkSource reads the binary dictionary chunk layout: a directory of
// dict_NNNN.bin files, each starting with an int32 little-endian entry
// count followed by (uint16 word length, word bytes, uint16 rank)
// records. Rank 1 is the most frequent word; frequency = 65536 - rank,
// so ordering by rank and by frequency agree. All chunks are loaded at
// open; the index rebuilds wholesale, so there is nothing to load lazily.
type ChunkSource struct {
	dirPath string
	entries []Entry
	freqs   map[string]int64
	skipped int
}

// OpenChunkDir loads every chunk file under dirPath. A chunk that turns
// out truncated or corrupt stops at the bad record and keeps whatever
// parsed before it; the remaining chunks still load.
func OpenChunkDir(dirPath string) (*ChunkSource, error) {
	pattern := filepath.Join(dirPath, "dict_*.bin")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no chunk files in %s", ErrSourceUnavailable, dirPath)
	}
	// Zero-padded names make lexicographic order the chunk order.
	sort.Strings(files)

	cs := &ChunkSource{
		dirPath: dirPath,
		freqs:   make(map[string]int64),
	}
	for _, file := range files {
		if err := cs.loadChunk(file); err != nil {
			cs.skipped++
			log.Warnf("Chunk %s only partially loaded: %v", file, err)
		}
	}
	if len(cs.entries) == 0 {
		return nil, fmt.Errorf("%w: no usable words in %s", ErrSourceUnavailable, dirPath)
	}
	sortRanked(cs.entries)
	log.Debugf("Loaded %d words from %d chunk files", len(cs.entries), len(files))
	return cs, nil
}

func (c *ChunkSource) loadChunk(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open chunk file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 {
		return fmt.Errorf("invalid entry count %d", totalEntries)
	}

	for count := 0; count < int(totalEntries); count++ {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return fmt.Errorf("failed to read rank: %w", err)
		}

		word := string(wordBytes)
		if word == "" {
			c.skipped++
			continue
		}
		freq := 65536 - int64(rank)
		c.entries = append(c.entries, Entry{Word: word, Frequency: freq})
		c.freqs[word] = freq
	}
	return nil
}

// StreamRanked iterates the preloaded entries, most frequent first.
func (c *ChunkSource) StreamRanked(ctx context.Context, fn func(word string, freq int64) error) error {
	for _, e := range c.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(e.Word, e.Frequency); err != nil {
			return err
		}
	}
	return nil
}

// TopByFrequency ranks candidates against the preloaded frequency map.
func (c *ChunkSource) TopByFrequency(ctx context.Context, candidates []string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return topByFrequency(c.freqs, candidates, limit), nil
}

// Len reports how many words the source holds.
func (c *ChunkSource) Len() int {
	return len(c.entries)
}

// SkippedRecords reports malformed words and partially loaded chunks.
func (c *ChunkSource) SkippedRecords() int {
	return c.skipped
}

// Close is a no-op; chunk data lives in memory once opened.
func (c *ChunkSource) Close() error {
	return nil
}

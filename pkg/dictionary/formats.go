package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceFormat identifies the on-disk layout of a ranked word source.
type SourceFormat int

const (
	FormatUnknown SourceFormat = iota
	FormatSQLite               // single .db/.sqlite database file
	FormatChunkDir             // directory of dict_NNNN.bin chunk files
)

// String returns a human readable format name for logs.
func (f SourceFormat) String() string {
	switch f {
	case FormatSQLite:
		return "sqlite"
	case FormatChunkDir:
		return "chunks"
	default:
		return "unknown"
	}
}

// DetectFormat inspects a path and decides which source layout it holds.
func DetectFormat(path string) SourceFormat {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown
	}
	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, "dict_*.bin"))
		if err == nil && len(matches) > 0 {
			return FormatChunkDir
		}
		return FormatUnknown
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	}
	return FormatUnknown
}

// Open creates the RankedSource matching the path's detected format.
func Open(path string) (RankedSource, error) {
	switch DetectFormat(path) {
	case FormatSQLite:
		return OpenSQLite(path)
	case FormatChunkDir:
		return OpenChunkDir(path)
	default:
		return nil, fmt.Errorf("%w: no frequency database or chunk files at %s", ErrSourceUnavailable, path)
	}
}

package dictionary

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const (
	streamQuery = "SELECT word, frequency FROM word_frequencies ORDER BY frequency DESC"
	topQueryFmt = "SELECT word FROM word_frequencies WHERE word IN (%s) ORDER BY frequency DESC LIMIT ?"
)

// SQLiteSource reads word frequencies from a SQLite database holding a
// word_frequencies(word TEXT, frequency INTEGER) table.
type SQLiteSource struct {
	db      *sql.DB
	path    string
	skipped atomic.Int64
}

// OpenSQLite opens an existing frequency database. A missing file is a
// hard failure rather than an implicitly created empty database.
func OpenSQLite(path string) (*SQLiteSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return &SQLiteSource{db: db, path: path}, nil
}

// StreamRanked walks the whole table in descending frequency order.
// Rows that fail to scan are skipped and counted, never fatal.
func (s *SQLiteSource) StreamRanked(ctx context.Context, fn func(word string, freq int64) error) error {
	rows, err := s.db.QueryContext(ctx, streamQuery)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var word string
		var freq int64
		if err := rows.Scan(&word, &freq); err != nil {
			s.skipped.Add(1)
			log.Debugf("Skipping malformed frequency row in %s: %v", s.path, err)
			continue
		}
		if word == "" {
			s.skipped.Add(1)
			continue
		}
		if err := fn(word, freq); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return nil
}

// TopByFrequency ranks the candidate words directly in SQL.
func (s *SQLiteSource) TopByFrequency(ctx context.Context, candidates []string, limit int) ([]string, error) {
	if len(candidates) == 0 || limit <= 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(candidates)), ",")
	query := fmt.Sprintf(topQueryFmt, placeholders)

	args := make([]any, 0, len(candidates)+1)
	for _, c := range candidates {
		args = append(args, c)
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("frequency filter query failed: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			s.skipped.Add(1)
			continue
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("frequency filter query failed: %w", err)
	}
	return words, nil
}

// SkippedRows reports how many malformed rows were dropped so far.
func (s *SQLiteSource) SkippedRows() int64 {
	return s.skipped.Load()
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

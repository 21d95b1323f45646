// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tweetstore persists cleaned tweets in a SQLite database. Each raw
// export file is one source, keyed by its base name; loading groups tweets
// back into calendar months, which is the unit every later stage works in.
package tweetstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/tweetscope/pkg/types"
)

// Store manages the cleaned-tweet SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			source_key TEXT PRIMARY KEY,
			product TEXT NOT NULL,
			cleaned_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tweets (
			id INTEGER NOT NULL,
			source_key TEXT NOT NULL REFERENCES sources(source_key) ON DELETE CASCADE,
			user_id INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			month TEXT NOT NULL,
			text TEXT NOT NULL,
			tokens TEXT NOT NULL,
			lemmas TEXT NOT NULL,
			hashtags TEXT NOT NULL,
			PRIMARY KEY (source_key, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tweets_month ON tweets(month)`,
		`CREATE INDEX IF NOT EXISTS idx_tweets_user ON tweets(user_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// HasSource reports whether a source file has already been cleaned and stored.
func (s *Store) HasSource(ctx context.Context, sourceKey string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sources WHERE source_key = ?`, sourceKey).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying source %s: %w", sourceKey, err)
	}
	return n > 0, nil
}

// DeleteSource removes a source and its tweets, used by forced recomputes.
func (s *Store) DeleteSource(ctx context.Context, sourceKey string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE source_key = ?`, sourceKey); err != nil {
		return fmt.Errorf("deleting tweets for %s: %w", sourceKey, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE source_key = ?`, sourceKey); err != nil {
		return fmt.Errorf("deleting source %s: %w", sourceKey, err)
	}
	return tx.Commit()
}

// SaveMonths stores the cleaned months of one source file in a single
// transaction, replacing any previous rows for the same source.
func (s *Store) SaveMonths(ctx context.Context, sourceKey, product string, months []types.MonthData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE source_key = ?`, sourceKey); err != nil {
		return fmt.Errorf("clearing old tweets: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sources (source_key, product, cleaned_at) VALUES (?, ?, ?)
		 ON CONFLICT(source_key) DO UPDATE SET product=excluded.product, cleaned_at=excluded.cleaned_at`,
		sourceKey, product, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tweets (id, source_key, user_id, created_at, month, text, tokens, lemmas, hashtags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, month := range months {
		for _, t := range month.Tweets {
			tokensJSON, _ := json.Marshal(t.Tokens)
			lemmasJSON, _ := json.Marshal(t.Lemmas)
			hashtagsJSON, _ := json.Marshal(t.Hashtags)
			_, err := stmt.ExecContext(ctx,
				t.ID, sourceKey, t.UserID, t.CreatedAt.UTC().Format(time.RFC3339Nano),
				month.Label, t.Text, string(tokensJSON), string(lemmasJSON), string(hashtagsJSON))
			if err != nil {
				return fmt.Errorf("inserting tweet %d: %w", t.ID, err)
			}
		}
	}
	return tx.Commit()
}

// LoadMonths returns the stored months of one source file, ordered by month
// label. The result is identical to what SaveMonths stored.
func (s *Store) LoadMonths(ctx context.Context, sourceKey string) ([]types.MonthData, error) {
	return s.loadWhere(ctx, `source_key = ?`, sourceKey)
}

// LoadProduct returns all stored months for a product group, merged across
// source files and ordered by month label.
func (s *Store) LoadProduct(ctx context.Context, product string) ([]types.MonthData, error) {
	return s.loadWhere(ctx,
		`source_key IN (SELECT source_key FROM sources WHERE product = ?)`, product)
}

func (s *Store) loadWhere(ctx context.Context, where string, arg any) ([]types.MonthData, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, created_at, month, text, tokens, lemmas, hashtags
		 FROM tweets WHERE `+where+` ORDER BY month, created_at, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("querying tweets: %w", err)
	}
	defer rows.Close()

	byMonth := make(map[string]*types.MonthData)
	var labels []string
	for rows.Next() {
		var (
			t         types.Tweet
			createdAt string
			month     string
			tokens    string
			lemmas    string
			hashtags  string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &createdAt, &month, &t.Text, &tokens, &lemmas, &hashtags); err != nil {
			return nil, fmt.Errorf("scanning tweet row: %w", err)
		}
		t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing stored timestamp %q: %w", createdAt, err)
		}
		if err := json.Unmarshal([]byte(tokens), &t.Tokens); err != nil {
			return nil, fmt.Errorf("parsing tokens for tweet %d: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(lemmas), &t.Lemmas); err != nil {
			return nil, fmt.Errorf("parsing lemmas for tweet %d: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(hashtags), &t.Hashtags); err != nil {
			return nil, fmt.Errorf("parsing hashtags for tweet %d: %w", t.ID, err)
		}

		m, ok := byMonth[month]
		if !ok {
			m = &types.MonthData{Label: month}
			byMonth[month] = m
			labels = append(labels, month)
		}
		m.Tweets = append(m.Tweets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tweets: %w", err)
	}

	sort.Strings(labels)
	months := make([]types.MonthData, 0, len(labels))
	for _, label := range labels {
		months = append(months, *byMonth[label])
	}
	return months, nil
}

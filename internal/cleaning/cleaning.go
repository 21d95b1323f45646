// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cleaning turns raw tweet CSV exports into cleaned, filtered,
// month-grouped tweets. Results are memoized in the tweet store by the
// source file's base name: re-cleaning the same export is a pure cache hit
// unless recomputation is forced.
package cleaning

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/gocarina/gocsv"

	"github.com/pdiddy/tweetscope/internal/normalize"
	"github.com/pdiddy/tweetscope/internal/tweetstore"
	"github.com/pdiddy/tweetscope/pkg/types"
)

// requiredColumns are the CSV columns a raw export must carry. A missing
// column is fatal to the run; there is no partial output.
var requiredColumns = []string{"CreatedAt", "Text", "Id", "UserId", "IsRetweet"}

// csvTime parses the export's timestamp column. Exports carry either
// RFC 3339 or the flat "2006-01-02 15:04:05" layout.
type csvTime struct {
	time.Time
}

// UnmarshalCSV implements gocsv's field decoding.
func (t *csvTime) UnmarshalCSV(s string) error {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

// rawRow is one tweet as exported.
type rawRow struct {
	CreatedAt csvTime `csv:"CreatedAt"`
	Text      string  `csv:"Text"`
	ID        int64   `csv:"Id"`
	UserID    int64   `csv:"UserId"`
	IsRetweet bool    `csv:"IsRetweet"`
}

// CleanFile cleans one raw CSV export for a product group and returns its
// month-grouped tweets. When the store already holds the source (keyed by
// base name) and force is false, the stored months are returned without
// reprocessing. Progress is reported to w.
//
// Cleaning performs, in order: drop retweets, normalize text, keep tweets
// matching the keyword set (token or lemma membership, or keyword substring
// of a hashtag), keep tweets classified as English.
func CleanFile(ctx context.Context, store *tweetstore.Store, norm *normalize.Normalizer,
	path string, product string, keywords map[string]bool, force bool, w io.Writer) ([]types.MonthData, error) {

	sourceKey := filepath.Base(path)

	cached, err := store.HasSource(ctx, sourceKey)
	if err != nil {
		return nil, err
	}
	if cached && !force {
		fmt.Fprintf(w, "found cleaned data for %s, loading it\n", sourceKey)
		return store.LoadMonths(ctx, sourceKey)
	}

	rows, err := loadCSV(path)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "loaded file, %d tweets found\n", len(rows))

	originals := rows[:0:0]
	for _, row := range rows {
		if !row.IsRetweet {
			originals = append(originals, row)
		}
	}
	fmt.Fprintf(w, "removed retweets, %d tweets remaining\n", len(originals))

	texts := make([]string, len(originals))
	for i, row := range originals {
		texts[i] = row.Text
	}
	normalized := norm.NormalizeAll(texts, w)
	fmt.Fprintf(w, "normalized text\n")

	var kept []types.Tweet
	for i, row := range originals {
		res := normalized[i]
		if !matchesKeywords(res, keywords) {
			continue
		}
		kept = append(kept, types.Tweet{
			ID:        row.ID,
			UserID:    row.UserID,
			CreatedAt: row.CreatedAt.Time,
			Text:      row.Text,
			Tokens:    res.Tokens,
			Lemmas:    res.Lemmas,
			Hashtags:  res.Hashtags,
		})
	}
	fmt.Fprintf(w, "filtered by keywords, %d tweets remaining\n", len(kept))

	english := kept[:0]
	for _, t := range kept {
		if whatlanggo.DetectLang(t.Text) == whatlanggo.Eng {
			english = append(english, t)
		}
	}
	fmt.Fprintf(w, "removed non-english tweets, %d tweets remaining\n", len(english))

	months := groupByMonth(english)
	if err := store.SaveMonths(ctx, sourceKey, product, months); err != nil {
		return nil, err
	}
	return months, nil
}

// loadCSV reads and decodes the export. Header validation happens up front
// so a missing column fails the run before any row is processed.
func loadCSV(path string) ([]rawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	header := data
	if i := strings.IndexByte(string(data), '\n'); i >= 0 {
		header = data[:i]
	}
	for _, col := range requiredColumns {
		if !containsColumn(string(header), col) {
			return nil, fmt.Errorf("%s: missing required column %q", path, col)
		}
	}

	var rows []rawRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

func containsColumn(header, col string) bool {
	for _, field := range strings.Split(strings.TrimRight(header, "\r"), ",") {
		if strings.Trim(field, `" `) == col {
			return true
		}
	}
	return false
}

// matchesKeywords reports whether any keyword appears among the tweet's
// tokens or lemmas, or as a substring of any hashtag.
func matchesKeywords(res normalize.Result, keywords map[string]bool) bool {
	for _, tok := range res.Tokens {
		if keywords[tok] {
			return true
		}
	}
	for _, lemma := range res.Lemmas {
		if keywords[lemma] {
			return true
		}
	}
	for kw := range keywords {
		for _, hashtag := range res.Hashtags {
			if strings.Contains(hashtag, kw) {
				return true
			}
		}
	}
	return false
}

// groupByMonth partitions tweets into MonthData ordered by month label.
// Input order within a month is preserved.
func groupByMonth(tweets []types.Tweet) []types.MonthData {
	byMonth := make(map[string]*types.MonthData)
	var months []types.MonthData
	order := make([]string, 0)
	for _, t := range tweets {
		label := t.Month()
		m, ok := byMonth[label]
		if !ok {
			m = &types.MonthData{Label: label}
			byMonth[label] = m
			order = append(order, label)
		}
		m.Tweets = append(m.Tweets, t)
	}
	sort.Strings(order)
	for _, label := range order {
		months = append(months, *byMonth[label])
	}
	return months
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package botscore

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pdiddy/tweetscope/internal/botcache"
	"github.com/pdiddy/tweetscope/pkg/types"
)

// defaultRequestInterval spaces API calls to fit the Pro-tier quota of
// 17280 requests per day.
const defaultRequestInterval = 5 * time.Second

// scoreProgressEvery controls how often ScoreMonths reports progress.
const scoreProgressEvery = 50

// Scorer is the external scoring call. *Client satisfies it; tests
// substitute a fake.
type Scorer interface {
	CheckAccount(ctx context.Context, userID int64) (types.BotScore, error)
}

// CacheOpener opens the bot-score cache session for one period label.
type CacheOpener func(period string) (*botcache.Cache, error)

// NewAuthorsByMonth returns, for each month, the authors seen in that month
// and in no strictly earlier month. An author who tweets in months 1 and 2
// appears only in month 1's set.
func NewAuthorsByMonth(months []types.MonthData) []map[int64]bool {
	seen := make(map[int64]bool)
	sets := make([]map[int64]bool, len(months))
	for i, m := range months {
		fresh := make(map[int64]bool)
		for author := range m.Authors() {
			if !seen[author] {
				fresh[author] = true
				seen[author] = true
			}
		}
		sets[i] = fresh
	}
	return sets
}

// ScoreMonths scores every new author of months[start:end]. Authors already
// present in the cache (scored or rejected, in any period of the product
// group) are skipped. A failed scoring call records a rejection and moves
// on; it never aborts the month or the run. Each month's cache session is
// closed, and thus flushed, on every exit path.
func ScoreMonths(ctx context.Context, months []types.MonthData, start, end int,
	scorer Scorer, open CacheOpener, w io.Writer) error {

	if start < 0 || end > len(months) || start > end {
		return fmt.Errorf("month range [%d, %d) out of bounds for %d months", start, end, len(months))
	}

	newAuthors := NewAuthorsByMonth(months)
	for i := start; i < end; i++ {
		fmt.Fprintf(w, "processing %s\n", months[i].Label)
		if err := scoreMonth(ctx, months[i].Label, newAuthors[i], scorer, open, w); err != nil {
			return err
		}
		fmt.Fprintf(w, "finished %s\n", months[i].Label)
	}
	return nil
}

func scoreMonth(ctx context.Context, period string, authors map[int64]bool,
	scorer Scorer, open CacheOpener, w io.Writer) (err error) {

	cache, err := open(period)
	if err != nil {
		return fmt.Errorf("opening cache for %s: %w", period, err)
	}
	defer func() {
		if closeErr := cache.Close(); err == nil {
			err = closeErr
		}
	}()

	// Deterministic order makes interrupted runs resume predictably.
	ids := make([]int64, 0, len(authors))
	for id := range authors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for n, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cache.Has(id) {
			continue
		}

		score, scoreErr := scorer.CheckAccount(ctx, id)
		if scoreErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(w, "scoring failed for user %d: %v\n", id, scoreErr)
			if err := cache.Reject(id, scoreErr.Error()); err != nil {
				return err
			}
			continue
		}
		if err := cache.Put(id, score); err != nil {
			return err
		}
		if n%scoreProgressEvery == 0 {
			fmt.Fprintf(w, "processed %d users\n", n)
		}
	}
	return nil
}

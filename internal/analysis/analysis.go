// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis builds read-side views over the cleaned-tweet store and
// the bot-score snapshots: per-product post-filters, bot-score threshold
// filtering, score distributions, monthly counts, and n-gram frequencies.
// No stage here derives new persistent data.
package analysis

import (
	"context"

	"github.com/pdiddy/tweetscope/internal/botcache"
	"github.com/pdiddy/tweetscope/internal/cleaning"
	"github.com/pdiddy/tweetscope/internal/tweetstore"
	"github.com/pdiddy/tweetscope/pkg/types"
)

// PostFilter decides whether a tweet survives a per-product load filter.
type PostFilter func(types.Tweet) bool

// RequireToken keeps only tweets whose tokens or lemmas contain the literal
// token.
func RequireToken(token string) PostFilter {
	return func(t types.Tweet) bool {
		for _, tok := range t.Tokens {
			if tok == token {
				return true
			}
		}
		for _, lemma := range t.Lemmas {
			if lemma == token {
				return true
			}
		}
		return false
	}
}

// PostFilterFor returns the product's configured post-filter, or nil when
// the product defines none.
func PostFilterFor(p cleaning.Product) PostFilter {
	if p.RequireToken == "" {
		return nil
	}
	return RequireToken(p.RequireToken)
}

// LoadProductGroup loads a product group's months from the store and
// applies the product's post-filter, if any.
func LoadProductGroup(ctx context.Context, store *tweetstore.Store, product string, pf PostFilter) ([]types.MonthData, error) {
	months, err := store.LoadProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	if pf == nil {
		return months, nil
	}
	for i := range months {
		kept := months[i].Tweets[:0]
		for _, t := range months[i].Tweets {
			if pf(t) {
				kept = append(kept, t)
			}
		}
		months[i].Tweets = kept
	}
	return months, nil
}

// LoadBotScores reconstructs the merged score view for a product group from
// its snapshot files.
func LoadBotScores(scoresDir, product string) (map[int64]types.BotScore, error) {
	return botcache.LoadScores(scoresDir, product)
}

// FilterByBotScore restricts each month's tweets to authors whose relevant
// score dimensions are strictly below threshold: the cap probability in cap
// mode, or both display scores in raw mode. Authors without a score are
// dropped.
func FilterByBotScore(months []types.MonthData, scores map[int64]types.BotScore, threshold float64, useCap bool) {
	humans := make(map[int64]bool)
	for id, s := range scores {
		if useCap {
			if s.Cap < threshold {
				humans[id] = true
			}
		} else if s.Scores.English < threshold && s.Scores.Universal < threshold {
			humans[id] = true
		}
	}
	for i := range months {
		kept := months[i].Tweets[:0]
		for _, t := range months[i].Tweets {
			if humans[t.UserID] {
				kept = append(kept, t)
			}
		}
		months[i].Tweets = kept
	}
}

// Distribution is a binned score histogram. Users counts authors per bin;
// Tweets counts their tweets per bin, negated so the two series render on
// opposite sides of the axis.
type Distribution struct {
	Users  []int
	Tweets []int
}

// ScoreDistributions bins the scored authors present in the months' tweets.
// Raw mode yields "english" and "universal" distributions over 51 bins
// (display score × 10); cap mode yields a single "cap" distribution over
// 101 bins (cap × 100). Scored authors with no tweets in the months are
// skipped.
func ScoreDistributions(scores map[int64]types.BotScore, months []types.MonthData, useCap bool) map[string]Distribution {
	tweetCounts := make(map[int64]int)
	for _, m := range months {
		for _, t := range m.Tweets {
			tweetCounts[t.UserID]++
		}
	}

	type dimension struct {
		name  string
		bins  int
		value func(types.BotScore) float64
	}
	var dims []dimension
	if useCap {
		dims = []dimension{
			{"cap", 101, func(s types.BotScore) float64 { return s.Cap * 100 }},
		}
	} else {
		dims = []dimension{
			{"english", 51, func(s types.BotScore) float64 { return s.Scores.English * 10 }},
			{"universal", 51, func(s types.BotScore) float64 { return s.Scores.Universal * 10 }},
		}
	}

	out := make(map[string]Distribution, len(dims))
	for _, dim := range dims {
		d := Distribution{Users: make([]int, dim.bins), Tweets: make([]int, dim.bins)}
		for id, s := range scores {
			count, ok := tweetCounts[id]
			if !ok {
				continue
			}
			bin := int(dim.value(s))
			if bin < 0 {
				bin = 0
			}
			if bin >= dim.bins {
				bin = dim.bins - 1
			}
			d.Users[bin]++
			d.Tweets[bin] -= count
		}
		out[dim.name] = d
	}
	return out
}

// TweetCountsByMonth returns per-month tweet totals.
func TweetCountsByMonth(months []types.MonthData) []int {
	counts := make([]int, len(months))
	for i, m := range months {
		counts[i] = len(m.Tweets)
	}
	return counts
}

// UserCountsByMonth returns per-month distinct author totals.
func UserCountsByMonth(months []types.MonthData) []int {
	counts := make([]int, len(months))
	for i, m := range months {
		counts[i] = len(m.Authors())
	}
	return counts
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model and stage configuration for the
// tweetscope pipeline.
package types

import "time"

// Tweet is one cleaned tweet. Tokens and Lemmas are index-parallel: element
// i of both derives from the same source token. Hashtags holds the "#"
// tokens observed in the text, without duplicates.
type Tweet struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text"`
	Tokens    []string  `json:"tokens"`
	Lemmas    []string  `json:"lemmas"`
	Hashtags  []string  `json:"hashtags,omitempty"`
}

// Month returns the calendar-month label ("2019-03") used to partition
// cleaned data and bot-score snapshots.
func (t Tweet) Month() string {
	return t.CreatedAt.Format("2006-01")
}

// MonthData groups the cleaned tweets of one calendar month for a product
// group. The n-gram maps start nil and are filled in by the analysis stage.
type MonthData struct {
	Label  string
	Tweets []Tweet

	Onegrams map[string]int
	Bigrams  map[string]int
	Trigrams map[string]int
}

// Authors returns the set of distinct author ids present in the month.
func (m MonthData) Authors() map[int64]bool {
	authors := make(map[int64]bool)
	for _, t := range m.Tweets {
		authors[t.UserID] = true
	}
	return authors
}

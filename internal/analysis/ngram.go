// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import "github.com/pdiddy/tweetscope/pkg/types"

// CountNGrams fills each month's 1/2/3-gram frequency maps from the
// non-lemmatized token sequences. Stopwords are removed before windowing,
// so a bigram can span a dropped stopword, matching the word-cloud inputs
// the rendering stage expects. Multi-token grams join with "-".
func CountNGrams(months []types.MonthData, stop *Stopwords) {
	for i := range months {
		onegrams := make(map[string]int)
		bigrams := make(map[string]int)
		trigrams := make(map[string]int)

		for _, t := range months[i].Tweets {
			var prev1, prev2 string
			var have1, have2 bool
			for _, word := range t.Tokens {
				if stop.Contains(word) {
					continue
				}
				onegrams[word]++
				if have1 {
					bigrams[prev1+"-"+word]++
				}
				if have2 {
					trigrams[prev2+"-"+prev1+"-"+word]++
				}
				prev2, have2 = prev1, have1
				prev1, have1 = word, true
			}
		}

		months[i].Onegrams = onegrams
		months[i].Bigrams = bigrams
		months[i].Trigrams = trigrams
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw tweet text into cleaned token sequences.
// Tokenization and part-of-speech tagging use prose, whose tokenizer keeps
// web entities (mentions, hashtags, emoticons, URLs) atomic; lemmatization
// uses golem's English dictionary.
package normalize

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// MentionToken replaces every "@user" mention so friend tags cannot be
// traced back to individual accounts.
const MentionToken = "@person"

// progressEvery controls how often NormalizeAll reports progress.
const progressEvery = 10000

var urlRe = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+(?:[a-z]{2,6}\.?|[a-z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Result holds the normalized form of one tweet. Tokens and Lemmas are
// index-parallel and always the same length.
type Result struct {
	Tokens   []string
	Lemmas   []string
	Hashtags []string
}

// Normalizer cleans and tokenizes tweet text. It is not safe for
// concurrent use; the pipeline is sequential.
type Normalizer struct {
	lem *golem.Lemmatizer
}

// New builds a Normalizer with the English lemmatizer dictionary loaded.
func New() (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("loading lemmatizer dictionary: %w", err)
	}
	return &Normalizer{lem: lem}, nil
}

// Normalize cleans one tweet. Malformed or empty text yields an empty
// Result, never an error: a tweet the tagger cannot handle contributes no
// tokens.
func (n *Normalizer) Normalize(text string) Result {
	clean := stripNonPrintable(text)
	if strings.TrimSpace(clean) == "" {
		return Result{}
	}

	doc, err := prose.NewDocument(strings.ToLower(clean),
		prose.WithExtraction(false), prose.WithSegmentation(false))
	if err != nil {
		return Result{}
	}

	var res Result
	seenTags := make(map[string]bool)
	for _, tok := range doc.Tokens() {
		word, tag := tok.Text, tok.Tag
		switch {
		case len(word) < 2 || urlRe.MatchString(word):
			continue
		case allPunctuation(word):
			continue
		case word[0] == '@':
			word, tag = MentionToken, "NNP"
		case word[0] == '#':
			if !seenTags[word] {
				seenTags[word] = true
				res.Hashtags = append(res.Hashtags, word)
			}
		}
		res.Tokens = append(res.Tokens, word)
		res.Lemmas = append(res.Lemmas, n.lemmatize(word, tag))
	}
	return res
}

// NormalizeAll cleans a batch of tweets, writing a progress notice to w
// every 10,000 items.
func (n *Normalizer) NormalizeAll(texts []string, w io.Writer) []Result {
	results := make([]Result, len(texts))
	for i, text := range texts {
		results[i] = n.Normalize(text)
		if i%progressEvery == 0 {
			fmt.Fprintf(w, "normalized %d tweets\n", i)
		}
	}
	return results
}

// lemmatize maps the token through the dictionary. golem's lookup is
// dictionary-based and covers all content-word classes, so unlike a
// WordNet lemmatizer it needs no coarse POS hint; the Penn tag only exempts
// proper nouns, including the mention placeholder, from lemmatization.
func (n *Normalizer) lemmatize(word, tag string) string {
	if strings.HasPrefix(tag, "NNP") {
		return word
	}
	return n.lem.Lemma(word)
}

// stripNonPrintable drops every character outside the ASCII printable set.
func stripNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x20 && r < 0x7f || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// allPunctuation reports whether every character of the token is ASCII
// punctuation.
func allPunctuation(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(punctuation, r) {
			return false
		}
	}
	return true
}

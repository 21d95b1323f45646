// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed stopwords.txt
var defaultStopwords string

// Stopwords is a token membership set used to exclude filler words from
// n-gram counts. One word per line; # lines are comments.
type Stopwords struct {
	words map[string]bool
}

// DefaultStopwords returns the embedded English stopword set.
func DefaultStopwords() *Stopwords {
	sw := &Stopwords{words: make(map[string]bool)}
	sw.addFrom(strings.NewReader(defaultStopwords))
	return sw
}

// LoadStopwords reads a stopword set from a file.
func LoadStopwords(path string) (*Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stopword file: %w", err)
	}
	defer f.Close()

	sw := &Stopwords{words: make(map[string]bool)}
	if err := sw.addFrom(f); err != nil {
		return nil, fmt.Errorf("reading stopword file %s: %w", path, err)
	}
	return sw, nil
}

// Contains reports whether the token is a stopword. Matching is
// case-insensitive.
func (sw *Stopwords) Contains(token string) bool {
	return sw.words[strings.ToLower(token)]
}

// Len returns the number of stopwords in the set.
func (sw *Stopwords) Len() int {
	return len(sw.words)
}

func (sw *Stopwords) addFrom(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sw.words[strings.ToLower(line)] = true
	}
	return scanner.Err()
}

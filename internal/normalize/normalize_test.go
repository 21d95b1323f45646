// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"bytes"
	"strings"
	"testing"
)

func newNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return n
}

func TestParallelSequenceInvariant(t *testing.T) {
	n := newNormalizer(t)
	texts := []string{
		"I love vaping every single day",
		"check this out http://example.com/page?x=1 amazing",
		"@friend have you tried the new vape pen? #vapelife",
		"!!! ... ???",
		"",
		"smoking cigarettes is worse than vaping imho",
	}
	for _, text := range texts {
		res := n.Normalize(text)
		if len(res.Tokens) != len(res.Lemmas) {
			t.Errorf("Normalize(%q): %d tokens vs %d lemmas, want equal",
				text, len(res.Tokens), len(res.Lemmas))
		}
	}
}

func TestMentionsBecomePlaceholder(t *testing.T) {
	n := newNormalizer(t)
	res := n.Normalize("@somebody @other_user said vaping helps")

	found := false
	for _, tok := range res.Tokens {
		if strings.HasPrefix(tok, "@") {
			found = true
			if tok != MentionToken {
				t.Errorf("mention token = %q, want %q", tok, MentionToken)
			}
		}
	}
	if !found {
		t.Error("expected at least one mention-derived token")
	}
}

func TestHashtagsRecordedAndKept(t *testing.T) {
	n := newNormalizer(t)
	text := "loving my new setup #vapelife #cloudchaser"
	res := n.Normalize(text)

	if len(res.Hashtags) == 0 {
		t.Fatal("expected hashtags to be recorded")
	}
	lower := strings.ToLower(text)
	for _, tag := range res.Hashtags {
		if !strings.HasPrefix(tag, "#") {
			t.Errorf("hashtag %q should start with #", tag)
		}
		if !strings.Contains(lower, tag) {
			t.Errorf("hashtag %q is not a substring of the input", tag)
		}
		// Hashtags stay in the token stream too.
		inTokens := false
		for _, tok := range res.Tokens {
			if tok == tag {
				inTokens = true
				break
			}
		}
		if !inTokens {
			t.Errorf("hashtag %q missing from token sequence", tag)
		}
	}
}

func TestDropsURLsShortAndPunctuationTokens(t *testing.T) {
	n := newNormalizer(t)
	res := n.Normalize("a ... https://example.com/x vape !!")

	for _, tok := range res.Tokens {
		if tok == "a" {
			t.Error("single-character token should be dropped")
		}
		if strings.HasPrefix(tok, "http") {
			t.Errorf("URL token %q should be dropped", tok)
		}
		if allPunctuation(tok) {
			t.Errorf("punctuation-only token %q should be dropped", tok)
		}
	}

	found := false
	for _, tok := range res.Tokens {
		if tok == "vape" {
			found = true
		}
	}
	if !found {
		t.Errorf("token \"vape\" should survive, got %v", res.Tokens)
	}
}

func TestLowercasesTokens(t *testing.T) {
	n := newNormalizer(t)
	res := n.Normalize("VAPING Is Great")
	for _, tok := range res.Tokens {
		if tok != strings.ToLower(tok) {
			t.Errorf("token %q is not lowercase", tok)
		}
	}
}

func TestEmptyAndUnprintableText(t *testing.T) {
	n := newNormalizer(t)
	for _, text := range []string{"", "   ", "\x00\x01\x02", "❤️"} {
		res := n.Normalize(text)
		if len(res.Tokens) != 0 || len(res.Lemmas) != 0 || len(res.Hashtags) != 0 {
			t.Errorf("Normalize(%q) = %+v, want empty result", text, res)
		}
	}
}

func TestLemmatization(t *testing.T) {
	n := newNormalizer(t)
	res := n.Normalize("he was smoking cigarettes yesterday")

	lemmas := make(map[string]bool)
	for _, l := range res.Lemmas {
		lemmas[l] = true
	}
	if !lemmas["cigarette"] {
		t.Errorf("expected lemma \"cigarette\", got %v", res.Lemmas)
	}
}

func TestNormalizeAllProgressAndOrder(t *testing.T) {
	n := newNormalizer(t)
	var buf bytes.Buffer
	texts := []string{"vaping is fun", "cigarettes are not"}

	results := n.NormalizeAll(texts, &buf)
	if len(results) != len(texts) {
		t.Fatalf("got %d results, want %d", len(results), len(texts))
	}
	if !strings.Contains(buf.String(), "normalized 0 tweets") {
		t.Errorf("progress output missing, got %q", buf.String())
	}
}

func TestURLRegex(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"http://example.com", true},
		{"https://example.com/path?q=1", true},
		{"ftp://files.example.org", true},
		{"http://localhost:8080/x", true},
		{"http://192.168.0.1", true},
		{"vape", false},
		{"example.com", false},
		{"http", false},
	}
	for _, tt := range tests {
		if got := urlRe.MatchString(tt.token); got != tt.want {
			t.Errorf("urlRe.MatchString(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package botcache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/tweetscope/pkg/types"
)

func score(cap, english, universal float64) types.BotScore {
	return types.BotScore{
		Cap:    cap,
		Scores: types.DisplayScores{English: english, Universal: universal},
	}
}

func TestPutThenHasAndGet(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, "vape", "2019-01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if c.Has(42) {
		t.Error("Has(42) before Put should be false")
	}
	if err := c.Put(42, score(0.9, 4.2, 3.8)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !c.Has(42) {
		t.Error("Has(42) after Put should be true")
	}

	got, err := c.Get(42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Cap != 0.9 || got.Scores.English != 4.2 || got.Scores.Universal != 3.8 {
		t.Errorf("Get(42) = %+v, want cap 0.9, scores 4.2/3.8", got)
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	c, err := Open(t.TempDir(), "vape", "2019-01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	_, err = c.Get(7)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on missing key = %v, want ErrNotFound", err)
	}
}

func TestRejectMakesHasTrueButGetFail(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, "vape", "2019-01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if err := c.Reject(99, "timeout"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if !c.Has(99) {
		t.Error("Has(99) after Reject should be true")
	}
	if _, err := c.Get(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on rejected user = %v, want ErrNotFound", err)
	}
}

func TestRejectWriteIsImmediate(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, "vape", "2019-01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if err := c.Reject(99, "account\tnot found\n"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	// Visible before any flush or close.
	data, err := os.ReadFile(filepath.Join(dir, "Exception-vape-2019-01.tsv"))
	if err != nil {
		t.Fatalf("reading exception log: %v", err)
	}
	line := strings.TrimSuffix(string(data), "\n")
	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		t.Fatalf("exception line = %q, want exactly one tab", line)
	}
	if fields[0] != "99" {
		t.Errorf("logged user id = %q, want 99", fields[0])
	}
	if strings.ContainsAny(fields[1], "\t\n") {
		t.Errorf("message %q should have tabs and newlines sanitized", fields[1])
	}
}

func TestAutomaticFlushAt1800(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, "vape", "2019-01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	snapshot := filepath.Join(dir, "UserBotScores-vape-2019-01.json")

	for i := 0; i < flushThreshold-1; i++ {
		if err := c.Put(int64(i), score(0.1, 1, 1)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if _, err := os.Stat(snapshot); !os.IsNotExist(err) {
		t.Fatalf("snapshot should not exist after %d puts", flushThreshold-1)
	}

	if err := c.Put(int64(flushThreshold-1), score(0.1, 1, 1)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(snapshot); err != nil {
		t.Fatalf("snapshot should exist after %d puts: %v", flushThreshold, err)
	}

	merged, err := LoadScores(dir, "vape")
	if err != nil {
		t.Fatalf("LoadScores: %v", err)
	}
	if len(merged) != flushThreshold {
		t.Errorf("snapshot holds %d entries, want %d", len(merged), flushThreshold)
	}
}

func TestCloseFlushesBelowThreshold(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, "vape", "2019-01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := c.Put(1, score(0.5, 2, 2)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	merged, err := LoadScores(dir, "vape")
	if err != nil {
		t.Fatalf("LoadScores: %v", err)
	}
	if _, ok := merged[1]; !ok {
		t.Error("score put before Close should be in the snapshot")
	}
}

func TestCrossPeriodMerge(t *testing.T) {
	dir := t.TempDir()

	a, err := Open(dir, "vape", "2019-01")
	if err != nil {
		t.Fatalf("Open period A: %v", err)
	}
	if err := a.Put(1, score(0.2, 1, 1)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close period A: %v", err)
	}

	b, err := Open(dir, "vape", "2019-02")
	if err != nil {
		t.Fatalf("Open period B: %v", err)
	}
	if !b.Has(1) {
		t.Error("period B should see user 1 scored in period A")
	}
	if err := b.Put(2, score(0.3, 2, 2)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := b.Reject(3, "suspended"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close period B: %v", err)
	}

	fresh, err := Open(dir, "vape", "2019-03")
	if err != nil {
		t.Fatalf("Open fresh: %v", err)
	}
	defer fresh.Close()
	for _, id := range []int64{1, 2, 3} {
		if !fresh.Has(id) {
			t.Errorf("fresh cache should report Has(%d)", id)
		}
	}
}

func TestMergeIsScopedToProductGroup(t *testing.T) {
	dir := t.TempDir()

	other, err := Open(dir, "cigarette", "2019-01")
	if err != nil {
		t.Fatalf("Open other group: %v", err)
	}
	if err := other.Put(5, score(0.7, 3, 3)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := other.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c, err := Open(dir, "vape", "2019-01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()
	if c.Has(5) {
		t.Error("vape cache should not see cigarette scores")
	}
}

func TestLoadScoresEmptyDir(t *testing.T) {
	merged, err := LoadScores(t.TempDir(), "vape")
	if err != nil {
		t.Fatalf("LoadScores: %v", err)
	}
	if len(merged) != 0 {
		t.Errorf("LoadScores on empty dir = %d entries, want 0", len(merged))
	}
}

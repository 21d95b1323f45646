// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package botcache is a resumable store of author bot scores. Each
// (product group, period) pair owns one JSON snapshot file plus an
// append-only exception log of users that failed scoring; opening the cache
// merges every snapshot and log for the product group, so a user scored or
// rejected in any earlier period is recognized and never re-queried.
package botcache

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/tweetscope/pkg/types"
)

// ErrNotFound is returned by Get for users with no cached score. Rejected
// users also report ErrNotFound: Has knows them, Get does not.
var ErrNotFound = errors.New("botcache: user not found")

// flushThreshold is the number of Puts between automatic snapshot writes.
// A crash between flushes loses at most flushThreshold-1 new scores, which
// bounds data loss without rewriting the snapshot on every insert.
const flushThreshold = 1800

// Cache is the bot-score store for one (product group, period) session.
// It is the sole writer of its snapshot file and exception log; Close must
// be called on every exit path to flush pending scores.
type Cache struct {
	dir    string
	group  string
	period string

	scores   map[int64]types.BotScore
	rejected map[int64]bool

	newSinceFlush int
	exceptionLog  *os.File
}

// Open loads the merged view of all snapshot and exception files for the
// product group and opens this period's exception log for appending.
// Snapshots are merged in sorted filename order, last writer wins; scores
// are immutable per user, so collisions carry equal values and the sort
// only makes the fold deterministic.
func Open(dir, group, period string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scores directory: %w", err)
	}

	c := &Cache{
		dir:      dir,
		group:    group,
		period:   period,
		scores:   make(map[int64]types.BotScore),
		rejected: make(map[int64]bool),
	}

	snapshots, err := filepath.Glob(filepath.Join(dir, snapshotName(group, "*")))
	if err != nil {
		return nil, fmt.Errorf("scanning snapshots: %w", err)
	}
	sort.Strings(snapshots)
	for _, path := range snapshots {
		if err := mergeSnapshot(path, c.scores); err != nil {
			return nil, err
		}
	}

	logs, err := filepath.Glob(filepath.Join(dir, exceptionName(group, "*")))
	if err != nil {
		return nil, fmt.Errorf("scanning exception logs: %w", err)
	}
	sort.Strings(logs)
	for _, path := range logs {
		if err := mergeExceptions(path, c.rejected); err != nil {
			return nil, err
		}
	}

	logPath := filepath.Join(dir, exceptionName(group, period))
	c.exceptionLog, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening exception log: %w", err)
	}
	return c, nil
}

// Has reports whether the user already has a cached score or a recorded
// rejection, from any merged period of this product group.
func (c *Cache) Has(userID int64) bool {
	if _, ok := c.scores[userID]; ok {
		return true
	}
	return c.rejected[userID]
}

// Get returns the cached score for the user, or ErrNotFound.
func (c *Cache) Get(userID int64) (types.BotScore, error) {
	score, ok := c.scores[userID]
	if !ok {
		return types.BotScore{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return score, nil
}

// Put inserts or overwrites the user's score. Every 1800 insertions since
// the last flush the full score map is persisted to this period's snapshot.
func (c *Cache) Put(userID int64, score types.BotScore) error {
	c.scores[userID] = score
	c.newSinceFlush++
	if c.newSinceFlush >= flushThreshold {
		if err := c.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Reject records a user that failed scoring. The exception log write is
// immediate, not batched, so partial-failure information survives a crash
// even when scores have not yet flushed.
func (c *Cache) Reject(userID int64, message string) error {
	c.rejected[userID] = true
	message = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(message)
	if _, err := fmt.Fprintf(c.exceptionLog, "%d\t%s\n", userID, message); err != nil {
		return fmt.Errorf("appending to exception log: %w", err)
	}
	return nil
}

// Flush writes the full score map to this period's snapshot file. The write
// goes to a temp file first and is renamed into place, so a crash mid-flush
// leaves the previous snapshot intact.
func (c *Cache) Flush() error {
	data, err := json.Marshal(c.scores)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	path := filepath.Join(c.dir, snapshotName(c.group, c.period))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	c.newSinceFlush = 0
	return nil
}

// Close forces a final snapshot write and closes the exception log. It is
// safe to defer immediately after Open.
func (c *Cache) Close() error {
	flushErr := c.Flush()
	closeErr := c.exceptionLog.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// LoadScores builds the read-only merged score view for a product group
// from all its snapshot files, without opening a write session.
func LoadScores(dir, group string) (map[int64]types.BotScore, error) {
	snapshots, err := filepath.Glob(filepath.Join(dir, snapshotName(group, "*")))
	if err != nil {
		return nil, fmt.Errorf("scanning snapshots: %w", err)
	}
	sort.Strings(snapshots)

	scores := make(map[int64]types.BotScore)
	for _, path := range snapshots {
		if err := mergeSnapshot(path, scores); err != nil {
			return nil, err
		}
	}
	return scores, nil
}

func snapshotName(group, period string) string {
	return fmt.Sprintf("UserBotScores-%s-%s.json", group, period)
}

func exceptionName(group, period string) string {
	return fmt.Sprintf("Exception-%s-%s.tsv", group, period)
}

func mergeSnapshot(path string, into map[int64]types.BotScore) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	var scores map[int64]types.BotScore
	if err := json.Unmarshal(data, &scores); err != nil {
		return fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	for id, score := range scores {
		into[id] = score
	}
	return nil
}

func mergeExceptions(path string, into map[int64]bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading exception log %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), "\t", 2)
		if len(fields) == 0 || fields[0] == "" {
			continue
		}
		userID, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("exception log %s: bad user id %q: %w", path, fields[0], err)
		}
		into[userID] = true
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning exception log %s: %w", path, err)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tweetscope/internal/botcache"
	"github.com/pdiddy/tweetscope/internal/botscore"
	"github.com/pdiddy/tweetscope/internal/tweetstore"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score new authors of a product group through the bot-detection API",
	Long: `Score walks a month range of cleaned tweets and queries the bot-detection
API for every author not seen in an earlier month and not already scored or
rejected in a previous run. Scores persist to per-period snapshot files and
failures to an append-only exception log, so interrupted runs resume where
they stopped.

The API enforces rate limits; the client waits them out rather than failing.`,
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	product, _ := cmd.Flags().GetString("product")
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	if product == "" {
		return fmt.Errorf("--product is required")
	}

	cfg := pipelineConfig()
	if cfg.Scoring.APIKey == "" {
		return fmt.Errorf("no API key: set scoring.api_key or provide .secrets/rapidapi-key")
	}

	store, err := tweetstore.Open(cfg.Cleaning.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	// Interruption flushes the current month's cache through the driver's
	// close path instead of killing the process mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	months, err := store.LoadProduct(ctx, product)
	if err != nil {
		return err
	}
	if len(months) == 0 {
		return fmt.Errorf("no cleaned tweets stored for product group %q", product)
	}
	if to <= 0 || to > len(months) {
		to = len(months)
	}

	client := botscore.NewClient(cfg.Scoring)
	opener := func(period string) (*botcache.Cache, error) {
		return botcache.Open(cfg.Scoring.ScoresDir, product, period)
	}

	fmt.Printf("starting to process %s months [%d, %d)\n", product, from, to)
	return botscore.ScoreMonths(ctx, months, from, to, client, opener, os.Stdout)
}

func init() {
	scoreCmd.Flags().String("product", "", "product group to score")
	scoreCmd.Flags().Int("from", 0, "index of the first month to process")
	scoreCmd.Flags().Int("to", 0, "index past the last month to process (default: all)")

	rootCmd.AddCommand(scoreCmd)
}

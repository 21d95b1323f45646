// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tweetscope/internal/cleaning"
	"github.com/pdiddy/tweetscope/internal/normalize"
	"github.com/pdiddy/tweetscope/internal/tweetstore"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean a raw tweet CSV export into the tweet store",
	Long: `Clean loads a raw CSV export, drops retweets, normalizes and tokenizes the
text, keeps tweets matching the product group's keywords (or hashtags), keeps
English tweets, and stores the result grouped by month.

Results are cached by the export's base name: re-running on the same file
loads the stored result unless --force is given.`,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	product, _ := cmd.Flags().GetString("product")
	force, _ := cmd.Flags().GetBool("force")
	if file == "" {
		return fmt.Errorf("--file is required")
	}
	if product == "" {
		return fmt.Errorf("--product is required")
	}

	cfg := pipelineConfig()
	products, err := cleaning.LoadProducts(cfg.Cleaning.ProductsFile)
	if err != nil {
		return err
	}
	prod, ok := products[product]
	if !ok {
		return fmt.Errorf("unknown product group %q (not in %s)", product, cfg.Cleaning.ProductsFile)
	}

	store, err := tweetstore.Open(cfg.Cleaning.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	norm, err := normalize.New()
	if err != nil {
		return err
	}

	months, err := cleaning.CleanFile(context.Background(), store, norm,
		file, product, prod.KeywordSet(), force, os.Stdout)
	if err != nil {
		return err
	}

	total := 0
	for _, m := range months {
		fmt.Printf("  %s  %d tweets, %d users\n", m.Label, len(m.Tweets), len(m.Authors()))
		total += len(m.Tweets)
	}
	fmt.Printf("%d tweets across %d months\n", total, len(months))
	return nil
}

func init() {
	cleanCmd.Flags().String("file", "", "path of the raw CSV export to clean")
	cleanCmd.Flags().String("product", "", "product group whose keywords filter the tweets")
	cleanCmd.Flags().Bool("force", false, "recompute even if a cached result exists")

	rootCmd.AddCommand(cleanCmd)
}

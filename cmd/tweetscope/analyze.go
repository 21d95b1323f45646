// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tweetscope/internal/analysis"
	"github.com/pdiddy/tweetscope/internal/cleaning"
	"github.com/pdiddy/tweetscope/internal/plot"
	"github.com/pdiddy/tweetscope/internal/tweetstore"
	"github.com/pdiddy/tweetscope/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Render histograms and word clouds from cleaned data and bot scores",
	Long: `Analyze reads the cleaned-tweet store and the bot-score snapshots and
renders images for manual review. No new data is derived or persisted.

Use --threshold to restrict all views to authors scoring below a
bot-likelihood threshold (with --use-cap, the threshold applies to the
calibrated cap probability instead of the raw display scores).`,
}

var analyzeHistCmd = &cobra.Command{
	Use:   "hist",
	Short: "Render the bot-score distribution",
	RunE:  runAnalyzeHist,
}

var analyzeMonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Render monthly tweet and user counts",
	RunE:  runAnalyzeMonthly,
}

var analyzeWordcloudCmd = &cobra.Command{
	Use:   "wordcloud",
	Short: "Render per-month n-gram word clouds",
	RunE:  runAnalyzeWordcloud,
}

// loadAnalysisInputs loads the product's months (post-filtered) and merged
// bot scores, applying the threshold filter when one is set.
func loadAnalysisInputs(cmd *cobra.Command, cfg types.PipelineConfig) (string, []types.MonthData, map[int64]types.BotScore, error) {
	product, _ := cmd.Flags().GetString("product")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	useCap, _ := cmd.Flags().GetBool("use-cap")
	if product == "" {
		return "", nil, nil, fmt.Errorf("--product is required")
	}

	products, err := cleaning.LoadProducts(cfg.Cleaning.ProductsFile)
	if err != nil {
		return "", nil, nil, err
	}
	prod, ok := products[product]
	if !ok {
		return "", nil, nil, fmt.Errorf("unknown product group %q", product)
	}

	store, err := tweetstore.Open(cfg.Cleaning.StorePath)
	if err != nil {
		return "", nil, nil, err
	}
	defer store.Close()

	months, err := analysis.LoadProductGroup(context.Background(), store, product, analysis.PostFilterFor(prod))
	if err != nil {
		return "", nil, nil, err
	}

	scores, err := analysis.LoadBotScores(cfg.Scoring.ScoresDir, product)
	if err != nil {
		return "", nil, nil, err
	}

	if threshold > 0 {
		analysis.FilterByBotScore(months, scores, threshold, useCap)
	}
	return product, months, scores, nil
}

func runAnalyzeHist(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	useCap, _ := cmd.Flags().GetBool("use-cap")

	product, months, scores, err := loadAnalysisInputs(cmd, cfg)
	if err != nil {
		return err
	}

	dists := analysis.ScoreDistributions(scores, months, useCap)
	for name, dist := range dists {
		path := filepath.Join(cfg.Analysis.AssetsDir, product, "ScoreDistr-"+name+".png")
		title := fmt.Sprintf("%s Score Distr", name)
		if err := plot.ScoreDistribution(dist, title, path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func runAnalyzeMonthly(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	product, months, _, err := loadAnalysisInputs(cmd, cfg)
	if err != nil {
		return err
	}

	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Label
	}

	tweetsPath := filepath.Join(cfg.Analysis.AssetsDir, product, "MonthlyTweets.png")
	if err := plot.MonthlyCounts(labels, analysis.TweetCountsByMonth(months),
		"Num Tweets vs Month", "Number of Tweets", tweetsPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", tweetsPath)

	usersPath := filepath.Join(cfg.Analysis.AssetsDir, product, "MonthlyUsers.png")
	if err := plot.MonthlyCounts(labels, analysis.UserCountsByMonth(months),
		"Num Users vs Month", "Number of Users", usersPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", usersPath)
	return nil
}

func runAnalyzeWordcloud(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if cfg.Analysis.FontFile == "" {
		return fmt.Errorf("word clouds need a TTF font: set analysis.font_file")
	}

	product, months, _, err := loadAnalysisInputs(cmd, cfg)
	if err != nil {
		return err
	}

	analysis.CountNGrams(months, analysis.DefaultStopwords())
	return plot.WordClouds(months, product,
		filepath.Join(cfg.Analysis.AssetsDir, "WordClouds"), cfg.Analysis.FontFile,
		cfg.Analysis.CloudWidth, cfg.Analysis.CloudHeight, os.Stdout)
}

func init() {
	for _, sub := range []*cobra.Command{analyzeHistCmd, analyzeMonthlyCmd, analyzeWordcloudCmd} {
		sub.Flags().String("product", "", "product group to analyze")
		sub.Flags().Float64("threshold", 0, "keep only authors scoring strictly below this value")
		sub.Flags().Bool("use-cap", false, "threshold and histogram use the cap probability")
		analyzeCmd.AddCommand(sub)
	}

	rootCmd.AddCommand(analyzeCmd)
}

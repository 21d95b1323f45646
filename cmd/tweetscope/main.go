// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tweetscope CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tweetscope/internal/secrets"
	"github.com/pdiddy/tweetscope/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the tweetscope CLI.
var rootCmd = &cobra.Command{
	Use:   "tweetscope",
	Short: "Social-media research pipeline for tobacco and vaping products",
	Long: `tweetscope processes raw tweet exports into research-ready views: it cleans
and normalizes tweets, filters them by product keywords and language, scores
authors for bot-likelihood through an external detection API with a resumable
cache, and renders histograms and word clouds for manual analysis.

Each pipeline stage is a subcommand: clean, score, and analyze. Stages hand
data to one another through the cleaned-tweet store and the bot-score
snapshot directory, so every stage can be re-run independently.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tweetscope.yaml or ~/.config/tweetscope/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tweetscope")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tweetscope"))
		}
	}

	viper.SetDefault("cleaning.products_file", "products.yaml")
	viper.SetDefault("cleaning.store_path", filepath.Join("data", "tweets.db"))
	viper.SetDefault("scoring.scores_dir", filepath.Join("data", "botscores"))
	viper.SetDefault("scoring.request_interval", 5*time.Second)
	viper.SetDefault("scoring.timeout", 30*time.Second)
	viper.SetDefault("scoring.user_agent", "tweetscope/"+version)
	viper.SetDefault("analysis.assets_dir", "assets")
	viper.SetDefault("analysis.cloud_width", 800)
	viper.SetDefault("analysis.cloud_height", 600)

	viper.SetEnvPrefix("TWEETSCOPE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configuration from viper and secrets.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Cleaning: types.CleaningConfig{
			ProductsFile: viper.GetString("cleaning.products_file"),
			StorePath:    viper.GetString("cleaning.store_path"),
		},
		Scoring: types.ScoringConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("scoring.timeout"),
				UserAgent: viper.GetString("scoring.user_agent"),
			},
			APIKey:          secretDefault("rapidapi-key", viper.GetString("scoring.api_key")),
			RequestInterval: viper.GetDuration("scoring.request_interval"),
			ScoresDir:       viper.GetString("scoring.scores_dir"),
		},
		Analysis: types.AnalysisConfig{
			AssetsDir:   viper.GetString("analysis.assets_dir"),
			FontFile:    viper.GetString("analysis.font_file"),
			CloudWidth:  viper.GetInt("analysis.cloud_width"),
			CloudHeight: viper.GetInt("analysis.cloud_height"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

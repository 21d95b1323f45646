// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "tweetscope/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CleaningConfig holds settings for the cleaning stage.
type CleaningConfig struct {
	// ProductsFile is the YAML file defining product groups, their filter
	// keywords, and optional post-filters.
	ProductsFile string `json:"products_file" yaml:"products_file"`

	// StorePath is the path of the cleaned-tweet SQLite database.
	StorePath string `json:"store_path" yaml:"store_path"`
}

// ScoringConfig holds settings for the bot-scoring stage.
type ScoringConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the bot-detection API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RequestInterval is the minimum spacing between API calls. The client
	// blocks until the interval has elapsed rather than failing (default 5s,
	// sized to the Pro-tier daily quota).
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`

	// ScoresDir is the directory holding bot-score snapshot files and
	// exception logs.
	ScoresDir string `json:"scores_dir" yaml:"scores_dir"`
}

// AnalysisConfig holds settings for the analysis and plotting stage.
type AnalysisConfig struct {
	// AssetsDir is the output directory for rendered plots and word clouds.
	AssetsDir string `json:"assets_dir" yaml:"assets_dir"`

	// FontFile is the TTF font used for word-cloud rendering.
	FontFile string `json:"font_file" yaml:"font_file"`

	// CloudWidth and CloudHeight are the word-cloud image dimensions
	// (default 800x600).
	CloudWidth  int `json:"cloud_width" yaml:"cloud_width"`
	CloudHeight int `json:"cloud_height" yaml:"cloud_height"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Cleaning CleaningConfig `json:"cleaning" yaml:"cleaning"`
	Scoring  ScoringConfig  `json:"scoring" yaml:"scoring"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package botscore queries the external bot-detection API and drives the
// month-by-month scoring of newly seen authors.
package botscore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/tweetscope/internal/httputil"
	"github.com/pdiddy/tweetscope/pkg/types"
)

// apiBase is the bot-detection service endpoint. Declared as a var so tests
// can substitute an httptest server.
var apiBase = "https://botometer-pro.p.rapidapi.com"

// Client calls the bot-detection API, one account per request, pacing
// requests with a blocking limiter so quota exhaustion waits instead of
// failing.
type Client struct {
	httpClient *http.Client
	apiKey     string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient builds a Client from the scoring configuration.
func NewClient(cfg types.ScoringConfig) *Client {
	interval := cfg.RequestInterval
	if interval <= 0 {
		interval = defaultRequestInterval
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
	}
}

// checkAccountResponse is the service's JSON shape.
type checkAccountResponse struct {
	Cap           float64             `json:"cap"`
	DisplayScores types.DisplayScores `json:"display_scores"`
}

// CheckAccount scores one author. It blocks on the rate limiter before the
// request and relies on DoWithRetry for 429 backoff, so the only way the
// limit surfaces to the caller is a 429 that outlasts every retry.
func (c *Client) CheckAccount(ctx context.Context, userID int64) (types.BotScore, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return types.BotScore{}, err
	}

	url := fmt.Sprintf("%s/4/check_account/%d", apiBase, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.BotScore{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return types.BotScore{}, fmt.Errorf("bot-detection API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return types.BotScore{}, fmt.Errorf("bot-detection API returned HTTP %d: %s", resp.StatusCode, msg)
	}

	var car checkAccountResponse
	if err := json.NewDecoder(resp.Body).Decode(&car); err != nil {
		return types.BotScore{}, fmt.Errorf("parsing bot-detection response: %w", err)
	}
	return types.BotScore{Cap: car.Cap, Scores: car.DisplayScores}, nil
}

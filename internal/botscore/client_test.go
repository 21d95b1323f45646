// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package botscore

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/tweetscope/pkg/types"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := apiBase
	apiBase = ts.URL
	t.Cleanup(func() { apiBase = old })

	return NewClient(types.ScoringConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "tweetscope-test",
		},
		APIKey:          "test-key",
		RequestInterval: time.Millisecond,
	})
}

func TestCheckAccountRequestShape(t *testing.T) {
	var gotPath, gotKey, gotAgent string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"cap": 0.8, "display_scores": {"english": 4.1, "universal": 3.2}}`)
	})

	score, err := c.CheckAccount(context.Background(), 12345)
	if err != nil {
		t.Fatalf("CheckAccount: %v", err)
	}

	if gotPath != "/4/check_account/12345" {
		t.Errorf("request path = %q, want /4/check_account/12345", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("X-RapidAPI-Key = %q, want test-key", gotKey)
	}
	if gotAgent != "tweetscope-test" {
		t.Errorf("User-Agent = %q, want tweetscope-test", gotAgent)
	}
	if score.Cap != 0.8 || score.Scores.English != 4.1 || score.Scores.Universal != 3.2 {
		t.Errorf("score = %+v, want cap 0.8, scores 4.1/3.2", score)
	}
}

func TestCheckAccountNon200(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "account not found", http.StatusNotFound)
	})

	_, err := c.CheckAccount(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for HTTP 404")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q, want mention of status 404", err)
	}
	if !strings.Contains(err.Error(), "account not found") {
		t.Errorf("error = %q, want response body included", err)
	}
}

func TestCheckAccountMalformedJSON(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"cap": "not a number"`)
	})

	_, err := c.CheckAccount(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for malformed response")
	}
}

func TestCheckAccountCancelledContext(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"cap": 0.1, "display_scores": {"english": 1, "universal": 1}}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.CheckAccount(ctx, 1); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestCheckAccountPacesRequests(t *testing.T) {
	var times []time.Time
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		times = append(times, time.Now())
		fmt.Fprint(w, `{"cap": 0.1, "display_scores": {"english": 1, "universal": 1}}`)
	}))
	defer ts.Close()

	old := apiBase
	apiBase = ts.URL
	defer func() { apiBase = old }()

	interval := 50 * time.Millisecond
	c := NewClient(types.ScoringConfig{
		HTTPConfig:      types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "tweetscope-test"},
		APIKey:          "test-key",
		RequestInterval: interval,
	})

	ctx := context.Background()
	for i := int64(0); i < 3; i++ {
		if _, err := c.CheckAccount(ctx, i); err != nil {
			t.Fatalf("CheckAccount: %v", err)
		}
	}

	if len(times) != 3 {
		t.Fatalf("server saw %d requests, want 3", len(times))
	}
	// The limiter admits one request immediately, then one per interval.
	if gap := times[2].Sub(times[1]); gap < interval/2 {
		t.Errorf("gap between paced requests = %v, want at least %v", gap, interval/2)
	}
}

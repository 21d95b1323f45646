// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plot renders the analysis views as images: score distributions,
// monthly tweet/user counts, and per-month word clouds. Pure presentation;
// the aggregation lives in internal/analysis.
package plot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pdiddy/tweetscope/internal/analysis"
)

var (
	userBarColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	tweetBarColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// MonthlyCounts renders a bar chart of one count per month label.
func MonthlyCounts(labels []string, counts []int, title, yLabel, path string) error {
	if len(labels) != len(counts) {
		return fmt.Errorf("labels and counts differ in length: %d vs %d", len(labels), len(counts))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Month"
	p.Y.Label.Text = yLabel

	bars, err := plotter.NewBarChart(intValues(counts), vg.Points(20))
	if err != nil {
		return fmt.Errorf("building bar chart: %w", err)
	}
	bars.Color = userBarColor
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(labels...)

	if err := ensureParent(path); err != nil {
		return err
	}
	if err := p.Save(9*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// ScoreDistribution renders a binned score distribution: author counts grow
// upward, their (negated) tweet counts grow downward on the same axis.
func ScoreDistribution(d analysis.Distribution, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Score bin"
	p.Y.Label.Text = "Users (up) / Tweets (down)"

	userBars, err := plotter.NewBarChart(intValues(d.Users), vg.Points(3))
	if err != nil {
		return fmt.Errorf("building user bars: %w", err)
	}
	userBars.Color = userBarColor
	userBars.LineStyle.Width = 0

	tweetBars, err := plotter.NewBarChart(intValues(d.Tweets), vg.Points(3))
	if err != nil {
		return fmt.Errorf("building tweet bars: %w", err)
	}
	tweetBars.Color = tweetBarColor
	tweetBars.LineStyle.Width = 0

	p.Add(userBars, tweetBars)
	p.Legend.Add("Users", userBars)
	p.Legend.Add("Tweets", tweetBars)
	p.Legend.Top = true

	if err := ensureParent(path); err != nil {
		return err
	}
	if err := p.Save(7*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func intValues(counts []int) plotter.Values {
	vals := make(plotter.Values, len(counts))
	for i, c := range counts {
		vals[i] = float64(c)
	}
	return vals
}

func ensureParent(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return nil
}

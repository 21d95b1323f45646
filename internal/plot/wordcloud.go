// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plot

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/psykhi/wordclouds"

	"github.com/pdiddy/tweetscope/pkg/types"
)

// maxCloudWords caps how many of the most frequent grams feed a cloud.
const maxCloudWords = 200

var cloudColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

// WordClouds renders one PNG per month and n-gram order under
// outDir/<product>/{Onegrams,Bigrams,Trigrams}/<month>.png. Months whose
// n-gram maps are empty are skipped. fontFile must point at a TTF font.
func WordClouds(months []types.MonthData, product, outDir, fontFile string, width, height int, w io.Writer) error {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}

	for _, m := range months {
		grams := []struct {
			folder string
			freqs  map[string]int
		}{
			{"Onegrams", m.Onegrams},
			{"Bigrams", m.Bigrams},
			{"Trigrams", m.Trigrams},
		}
		rendered := 0
		for _, g := range grams {
			if len(g.freqs) == 0 {
				continue
			}
			path := filepath.Join(outDir, product, g.folder, m.Label+".png")
			if err := renderCloud(topWords(g.freqs, maxCloudWords), fontFile, width, height, path); err != nil {
				return fmt.Errorf("word cloud for %s %s: %w", m.Label, g.folder, err)
			}
			rendered++
		}
		if rendered > 0 {
			fmt.Fprintf(w, "generated wordclouds for %s\n", m.Label)
		}
	}
	return nil
}

func renderCloud(freqs map[string]int, fontFile string, width, height int, path string) error {
	cloud := wordclouds.NewWordcloud(freqs,
		wordclouds.FontFile(fontFile),
		wordclouds.Width(width),
		wordclouds.Height(height),
		wordclouds.FontMinSize(10),
		wordclouds.FontMaxSize(80),
		wordclouds.Colors(cloudColors),
		wordclouds.BackgroundColor(color.White),
	)
	img := cloud.Draw()

	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// topWords keeps the n most frequent grams, ties broken alphabetically so
// output is deterministic.
func topWords(freqs map[string]int, n int) map[string]int {
	if len(freqs) <= n {
		return freqs
	}
	type wc struct {
		word  string
		count int
	}
	all := make([]wc, 0, len(freqs))
	for word, count := range freqs {
		all = append(all, wc{word, count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})
	top := make(map[string]int, n)
	for _, e := range all[:n] {
		top[e.word] = e.count
	}
	return top
}

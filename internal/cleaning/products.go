// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cleaning

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Product describes one product group: the keyword set that selects its
// tweets and an optional post-filter applied when the group is loaded for
// analysis.
type Product struct {
	// Keywords select tweets whose tokens or lemmas contain any of them, or
	// whose hashtags contain any of them as a substring.
	Keywords []string `yaml:"keywords"`

	// RequireToken, when set, drops tweets at analysis load time whose
	// tokens and lemmas both lack this literal token. Used for groups whose
	// keyword net is wider than the topic (e.g. hookah, where "sheesh"
	// catches slang unrelated to the product).
	RequireToken string `yaml:"require_token,omitempty"`
}

// ProductsFile is the on-disk representation of the product group catalog.
type ProductsFile struct {
	Products map[string]Product `yaml:"products"`
}

// LoadProducts reads the product catalog from a YAML file.
func LoadProducts(path string) (map[string]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading products file: %w", err)
	}
	var pf ProductsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing products file %s: %w", path, err)
	}
	if len(pf.Products) == 0 {
		return nil, fmt.Errorf("products file %s defines no product groups", path)
	}
	return pf.Products, nil
}

// KeywordSet returns the lowercased keyword membership set.
func (p Product) KeywordSet() map[string]bool {
	set := make(map[string]bool, len(p.Keywords))
	for _, kw := range p.Keywords {
		set[strings.ToLower(kw)] = true
	}
	return set
}

// Package rules holds the locale-specific word lists and selectors that drive
// extraction, validation and normalization.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Selectors struct {
	Cards       []string `yaml:"cards"`
	Name        []string `yaml:"name"`
	Price       []string `yaml:"price"`
	Description []string `yaml:"description"`
	Rating      []string `yaml:"rating"`
}

// Rules is immutable after Load; callers must not modify the slices.
type Rules struct {
	CurrencyMarkers []string  `yaml:"currency_markers"`
	Brands          []string  `yaml:"brands"`
	NavTerms        []string  `yaml:"nav_terms"`
	Descriptors     []string  `yaml:"descriptors"`
	Selectors       Selectors `yaml:"selectors"`
}

// Default returns the built-in rule set.
func Default() *Rules {
	r, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("rules: invalid embedded default: %v", err))
	}
	return r
}

// Load reads a rule set from path. An empty path yields the built-in rules.
func Load(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}
	r, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a YAML rule set. Sections left out fall back to the built-in ones.
func Parse(b []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	var def Rules
	if err := yaml.Unmarshal(defaultYAML, &def); err != nil {
		return nil, err
	}
	r.fill(&def)
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Rules) fill(def *Rules) {
	if len(r.CurrencyMarkers) == 0 {
		r.CurrencyMarkers = def.CurrencyMarkers
	}
	if len(r.Brands) == 0 {
		r.Brands = def.Brands
	}
	if len(r.NavTerms) == 0 {
		r.NavTerms = def.NavTerms
	}
	if len(r.Descriptors) == 0 {
		r.Descriptors = def.Descriptors
	}
	s, d := &r.Selectors, def.Selectors
	if len(s.Cards) == 0 {
		s.Cards = d.Cards
	}
	if len(s.Name) == 0 {
		s.Name = d.Name
	}
	if len(s.Price) == 0 {
		s.Price = d.Price
	}
	if len(s.Description) == 0 {
		s.Description = d.Description
	}
	if len(s.Rating) == 0 {
		s.Rating = d.Rating
	}
}

func (r *Rules) validate() error {
	for _, m := range r.CurrencyMarkers {
		if m == "" {
			return errors.New("currency_markers must not contain empty entries")
		}
	}
	for _, d := range r.Descriptors {
		if strings.TrimSpace(d) == "" {
			return errors.New("descriptors must not contain empty entries")
		}
	}
	return nil
}

// HasCurrency reports whether s contains any currency marker.
func (r *Rules) HasCurrency(s string) bool {
	for _, m := range r.CurrencyMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// AmountPattern matches a currency marker followed by a decimal amount.
func (r *Rules) AmountPattern() *regexp.Regexp {
	alts := make([]string, len(r.CurrencyMarkers))
	for i, m := range r.CurrencyMarkers {
		alts[i] = regexp.QuoteMeta(m)
	}
	return regexp.MustCompile(`(?:` + strings.Join(alts, "|") + `)\s*\d+(?:\.\d+)?`)
}

// HasBrand reports whether s contains any brand token, ignoring case.
func (r *Rules) HasBrand(s string) bool {
	lower := strings.ToLower(s)
	for _, b := range r.Brands {
		if strings.Contains(lower, strings.ToLower(b)) {
			return true
		}
	}
	return false
}

// HasNavTerm reports whether s contains a navigation label.
func (r *Rules) HasNavTerm(s string) bool {
	for _, t := range r.NavTerms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

package crawler

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"phoneprice/internal/model"
	"phoneprice/internal/rules"
)

const (
	minNameLen       = 5
	minBrandlessName = 10
)

var reSpaces = regexp.MustCompile(`\s+`)

// Validator filters out elements that are not products and tidies accepted names.
type Validator struct {
	rules    *rules.Rules
	rePrices *regexp.Regexp
}

func NewValidator(r *rules.Rules) *Validator {
	return &Validator{
		rules:    r,
		rePrices: r.AmountPattern(),
	}
}

// Valid reports whether rec looks like a real product.
func (v *Validator) Valid(rec model.RawRecord) bool {
	name := rec.Name
	if v.rules.HasNavTerm(name) {
		return false
	}

	nameLen := utf8.RuneCountInString(name)
	if nameLen < minNameLen || isDigits(name) {
		return false
	}

	if rec.Price == model.UnknownPrice &&
		rec.Description == model.UnknownDescription &&
		rec.Rating == model.UnknownRating {
		return false
	}

	if !v.rules.HasBrand(name) && rec.Price == model.UnknownPrice && nameLen < minBrandlessName {
		return false
	}
	return true
}

// Clean strips embedded currency amounts from the name and collapses whitespace.
func (v *Validator) Clean(rec model.RawRecord) model.RawRecord {
	name := strings.TrimSpace(v.rePrices.ReplaceAllString(rec.Name, ""))
	rec.Name = reSpaces.ReplaceAllString(name, " ")
	return rec
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

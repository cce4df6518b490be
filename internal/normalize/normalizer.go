// Package normalize turns noisy product names and prices into canonical
// (model, price) pairs.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"phoneprice/internal/model"
	"phoneprice/internal/rules"
)

// Tried in order; the first match wins and group 1 is the storage token.
var storagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[(（](\d+[GT]B?/\d+[GT]B?)[)）]`),
	regexp.MustCompile(`(\d+(?:[GT]B?)?\+\d+[GT]B?)`),
	regexp.MustCompile(`(\d+[GT]B?\s*[-×x]\s*\d+[GT]B?)`),
}

var (
	reSpaces        = regexp.MustCompile(`\s+`)
	reTrailingPunct = regexp.MustCompile(`[,，。.\s]+$`)
	reEmptyBrackets = regexp.MustCompile(`[(（]\s*[)）]`)
	rePriceNumeral  = regexp.MustCompile(`[¥￥]?\s*(\d+(?:\.\d+)?)`)
	reValidPrice    = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

const minModelLen = 4

type Normalizer struct {
	descriptors []string
}

func New(r *rules.Rules) *Normalizer {
	d := make([]string, len(r.Descriptors))
	copy(d, r.Descriptors)
	return &Normalizer{descriptors: d}
}

// Normalize maps a raw name and price to a record. ok is false when the result
// fails the acceptance gate.
func (n *Normalizer) Normalize(name, price string) (rec model.NormalizedRecord, ok bool) {
	rec = model.NormalizedRecord{
		Model: n.Model(name),
		Price: Price(price),
	}
	return rec, Accept(rec)
}

// Model extracts the storage token, strips descriptors and reassembles the name.
func (n *Normalizer) Model(name string) string {
	name = strings.TrimSpace(name)
	working, storage := splitStorage(name)

	working = tidy(working)
	for _, d := range n.descriptors {
		working = tidy(strings.ReplaceAll(working, d, ""))
	}

	if storage == "" {
		return working
	}
	return working + "(" + storage + ")"
}

func tidy(s string) string {
	s = reSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	return reTrailingPunct.ReplaceAllString(s, "")
}

func splitStorage(name string) (working, storage string) {
	for _, re := range storagePatterns {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		working = re.ReplaceAllString(name, "")
		working = reEmptyBrackets.ReplaceAllString(working, "")
		return strings.TrimSpace(working), m[1]
	}
	return name, ""
}

// Price isolates the first decimal numeral; without one the input passes through.
func Price(raw string) string {
	if m := rePriceNumeral.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

// Accept is the gate every persisted record must pass. Prices without a
// numeral, such as 价格面议, are treated as unavailable.
func Accept(rec model.NormalizedRecord) bool {
	if utf8.RuneCountInString(rec.Model) < minModelLen {
		return false
	}
	return reValidPrice.MatchString(rec.Price)
}

package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"phoneprice/internal/model"
	"phoneprice/internal/rules"
)

// ErrNoCandidates means no tier found anything that looks like a product card.
var ErrNoCandidates = errors.New("no product candidates found")

const (
	minParentTextLen      = 20
	maxGrandparentTextLen = 500
	minScanTextLen        = 15
	maxScanTextLen        = 500
)

// Extractor pulls raw product records out of a listing page.
type Extractor struct {
	rules   *rules.Rules
	baseURL *url.URL
	fields  fieldSet
}

func NewExtractor(r *rules.Rules, baseURL string) (*Extractor, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	e := &Extractor{rules: r, baseURL: u}
	e.fields = newFieldSet(r, u)
	return e, nil
}

// Extract returns one record per candidate element, in candidate order.
func (e *Extractor) Extract(doc *goquery.Document) ([]model.RawRecord, error) {
	candidates := e.Candidates(doc)
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	records := make([]model.RawRecord, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, e.Record(c))
	}
	return records, nil
}

// Candidates applies the selection tiers; the first one that yields anything wins.
func (e *Extractor) Candidates(doc *goquery.Document) []*goquery.Selection {
	tiers := []func(*goquery.Document) []*goquery.Selection{
		e.priceAnchored,
		e.structural,
		e.textScan,
	}
	for _, tier := range tiers {
		if found := tier(doc); len(found) > 0 {
			return found
		}
	}
	return nil
}

// priceAnchored collects the parent and grandparent of every leaf span/div
// showing the currency marker.
func (e *Extractor) priceAnchored(doc *goquery.Document) []*goquery.Selection {
	set := newNodeSet()
	doc.Find("span, div").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 || !e.rules.HasCurrency(s.Text()) {
			return
		}
		parent := s.Parent()
		if parent.Length() == 0 {
			return
		}
		if textLen(parent) > minParentTextLen {
			set.add(parent)
		}
		if gp := parent.Parent(); gp.Length() > 0 && textLen(gp) < maxGrandparentTextLen {
			set.add(gp)
		}
	})
	return set.items
}

func (e *Extractor) structural(doc *goquery.Document) []*goquery.Selection {
	for _, sel := range e.rules.Selectors.Cards {
		found := doc.Find(sel)
		if found.Length() == 0 {
			continue
		}
		out := make([]*goquery.Selection, 0, found.Length())
		found.Each(func(_ int, s *goquery.Selection) {
			out = append(out, s)
		})
		return out
	}
	return nil
}

func (e *Extractor) textScan(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("li, div, a").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		n := utf8.RuneCountInString(text)
		if n <= minScanTextLen || n >= maxScanTextLen {
			return
		}
		if e.rules.HasBrand(text) || e.rules.HasCurrency(text) {
			out = append(out, s)
		}
	})
	return out
}

// Record resolves every field of a single candidate.
func (e *Extractor) Record(s *goquery.Selection) model.RawRecord {
	return model.RawRecord{
		Name:        firstOf(s, model.UnknownName, e.fields.name...),
		Price:       firstOf(s, model.UnknownPrice, e.fields.price...),
		Link:        firstOf(s, model.UnknownLink, e.fields.link...),
		Description: firstOf(s, model.UnknownDescription, e.fields.description...),
		Rating:      firstOf(s, model.UnknownRating, e.fields.rating...),
	}
}

type nodeSet struct {
	seen  map[*html.Node]struct{}
	items []*goquery.Selection
}

func newNodeSet() *nodeSet {
	return &nodeSet{seen: make(map[*html.Node]struct{})}
}

func (ns *nodeSet) add(s *goquery.Selection) {
	n := s.Get(0)
	if _, ok := ns.seen[n]; ok {
		return
	}
	ns.seen[n] = struct{}{}
	ns.items = append(ns.items, s)
}

func textLen(s *goquery.Selection) int {
	return utf8.RuneCountInString(strings.TrimSpace(s.Text()))
}

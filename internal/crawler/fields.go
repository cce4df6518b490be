package crawler

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"phoneprice/internal/rules"
)

const maxDescriptionLen = 100

var (
	reNameToken = regexp.MustCompile(`[\p{Han}\w-]+\s*[A-Za-z0-9]+\p{Han}*`)
	reSpecToken = regexp.MustCompile(`(\d+GB|\d+MB|\d+G|\d+M|\d+核|\d+英寸|\d+像素|\d+mAh).*?(\d+GB|\d+MB|\d+G|\d+M|\d+核|\d+英寸|\d+像素|\d+mAh)?`)
)

const (
	minNameTokenLen   = 4
	maxNameTokenLen   = 49
	minSpecSourceText = 50
)

// fieldFunc returns a field value, or "" when it has nothing to offer.
type fieldFunc func(*goquery.Selection) string

func firstOf(s *goquery.Selection, def string, fns ...fieldFunc) string {
	for _, fn := range fns {
		if v := fn(s); v != "" {
			return v
		}
	}
	return def
}

type fieldSet struct {
	name        []fieldFunc
	price       []fieldFunc
	link        []fieldFunc
	description []fieldFunc
	rating      []fieldFunc
}

func newFieldSet(r *rules.Rules, base *url.URL) fieldSet {
	rePrice := r.AmountPattern()

	var fs fieldSet
	for _, sel := range r.Selectors.Name {
		fs.name = append(fs.name, selectText(sel))
	}
	fs.name = append(fs.name, nameFromText)

	for _, sel := range r.Selectors.Price {
		fs.price = append(fs.price, selectContaining(sel, r.HasCurrency))
	}
	fs.price = append(fs.price, func(s *goquery.Selection) string {
		return rePrice.FindString(s.Text())
	})

	fs.link = []fieldFunc{linkResolver(base)}

	for _, sel := range r.Selectors.Description {
		fs.description = append(fs.description, truncate(selectText(sel), maxDescriptionLen))
	}
	fs.description = append(fs.description, specFromText)

	for _, sel := range r.Selectors.Rating {
		fs.rating = append(fs.rating, selectText(sel))
	}
	return fs
}

// selectText takes the first element matching sel; a blank match yields "".
func selectText(sel string) fieldFunc {
	return func(s *goquery.Selection) string {
		return strings.TrimSpace(s.Find(sel).First().Text())
	}
}

func selectContaining(sel string, match func(string) bool) fieldFunc {
	inner := selectText(sel)
	return func(s *goquery.Selection) string {
		if v := inner(s); match(v) {
			return v
		}
		return ""
	}
}

func truncate(fn fieldFunc, max int) fieldFunc {
	return func(s *goquery.Selection) string {
		v := fn(s)
		if utf8.RuneCountInString(v) <= max {
			return v
		}
		return string([]rune(v)[:max]) + "..."
	}
}

func nameFromText(s *goquery.Selection) string {
	for _, m := range reNameToken.FindAllString(strings.TrimSpace(s.Text()), -1) {
		if n := utf8.RuneCountInString(m); n >= minNameTokenLen && n <= maxNameTokenLen {
			return m
		}
	}
	return ""
}

func specFromText(s *goquery.Selection) string {
	text := s.Text()
	if utf8.RuneCountInString(text) <= minSpecSourceText {
		return ""
	}
	return reSpecToken.FindString(strings.TrimSpace(text))
}

func linkResolver(base *url.URL) fieldFunc {
	return func(s *goquery.Selection) string {
		href, ok := s.Find("a[href]").First().Attr("href")
		if !ok {
			return ""
		}
		href = strings.TrimSpace(href)
		switch {
		case strings.HasPrefix(href, "http"):
			return href
		case strings.HasPrefix(href, "/"):
			ref, err := url.Parse(href)
			if err != nil {
				return ""
			}
			return base.ResolveReference(ref).String()
		default:
			return ""
		}
	}
}

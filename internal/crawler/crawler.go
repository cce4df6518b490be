package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"phoneprice/internal/logger"
	"phoneprice/internal/model"
	"phoneprice/internal/normalize"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Result is the outcome of one crawl.
type Result struct {
	Title      string
	Records    []model.RawRecord
	Candidates int
	Rejected   int
	Duplicates int
}

type Crawler struct {
	fetcher   Fetcher
	extractor *Extractor
	validator *Validator
	log       logger.Logger
}

func New(f Fetcher, e *Extractor, v *Validator, log logger.Logger) *Crawler {
	return &Crawler{fetcher: f, extractor: e, validator: v, log: log}
}

// Crawl fetches url and returns the validated, deduplicated raw records.
func (c *Crawler) Crawl(ctx context.Context, url string) (*Result, error) {
	c.log.Info("Fetching page", logger.String("url", url))

	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", url, err)
	}
	return c.Process(doc)
}

// Process runs extraction, validation and deduplication over a parsed page.
func (c *Crawler) Process(doc *goquery.Document) (*Result, error) {
	res := &Result{Title: strings.TrimSpace(doc.Find("title").First().Text())}
	c.log.Debug("Page parsed", logger.String("title", res.Title))

	raw, err := c.extractor.Extract(doc)
	if err != nil {
		return res, err
	}
	res.Candidates = len(raw)
	c.log.Info("Candidate elements found", logger.Int("count", res.Candidates))

	seen := normalize.NewDeduper()
	for _, rec := range raw {
		if !c.validator.Valid(rec) {
			res.Rejected++
			continue
		}
		rec = c.validator.Clean(rec)
		if !seen.Add(rec.Name + "_" + rec.Price) {
			continue
		}
		res.Records = append(res.Records, rec)
		c.log.Debug("Product extracted", logger.String("name", rec.Name), logger.String("price", rec.Price))
	}
	res.Duplicates = seen.Skipped()

	return res, nil
}

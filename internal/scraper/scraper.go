// Package scraper reads headline titles from the external sports listing.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoListing is returned when the page has no news block.
var ErrNoListing = errors.New("news listing not found on page")

type Headline struct {
	Title string `json:"title"`
}

// Scraper fetches a listing page and extracts one headline per news item.
type Scraper struct {
	url    string
	client *http.Client
}

func New(url string, timeout time.Duration) *Scraper {
	return &Scraper{url: url, client: &http.Client{Timeout: timeout}}
}

func (s *Scraper) Headlines(ctx context.Context) ([]Headline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", s.url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.url, err)
	}
	return Parse(doc)
}

// Parse extracts headlines from the first div.row.lineNews block. An item
// without a span yields an empty title.
func Parse(doc *goquery.Document) ([]Headline, error) {
	listing := doc.Find("div.row.lineNews").First()
	if listing.Length() == 0 {
		return nil, ErrNoListing
	}

	headlines := []Headline{}
	listing.Find("div.one").Each(func(_ int, item *goquery.Selection) {
		title := item.Find("span").First().Text()
		title = strings.TrimSpace(strings.ReplaceAll(title, "\n", ""))
		headlines = append(headlines, Headline{Title: title})
	})
	return headlines, nil
}

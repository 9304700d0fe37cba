// Package closedate finds the closing date of a deletion discussion from
// its rendered page.
package closedate

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

var datePattern = regexp.MustCompile(`\b\d{1,2} [A-Z][a-z]+ \d{4}\b`)

type HTMLFetcher interface {
	RenderedHTML(ctx context.Context, title string) (string, error)
}

type Finder struct {
	fetcher HTMLFetcher
	baseURL *url.URL
}

// NewFinder returns a finder that fetches discussions through fetcher.
// wikiURL is used to resolve relative links in the rendered HTML.
func NewFinder(fetcher HTMLFetcher, wikiURL string) (*Finder, error) {
	base, err := url.Parse(wikiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid wiki URL: %w", err)
	}
	return &Finder{fetcher: fetcher, baseURL: base}, nil
}

func (f *Finder) FindCloseDate(ctx context.Context, discussion string) (string, error) {
	html, err := f.fetcher.RenderedHTML(ctx, discussion)
	if err != nil {
		return "", err
	}

	text, err := f.extractText(discussion, html)
	if err != nil {
		return "", err
	}

	for _, match := range datePattern.FindAllString(text, -1) {
		if _, err := time.Parse("2 January 2006", match); err == nil {
			slog.Debug("Close date found", "discussion", discussion, "date", match)
			return match, nil
		}
	}
	return "", fmt.Errorf("no date found in %s", discussion)
}

func (f *Finder) extractText(title, fragment string) (string, error) {
	page := f.baseURL.JoinPath("wiki", strings.ReplaceAll(title, " ", "_"))
	doc := "<html><head><title>" + title + "</title></head><body><article>" + fragment + "</article></body></html>"

	article, err := readability.FromReader(strings.NewReader(doc), page)
	if err != nil {
		return "", fmt.Errorf("failed to extract text of %s: %w", title, err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return "", fmt.Errorf("no text extracted from %s", title)
	}
	return article.TextContent, nil
}

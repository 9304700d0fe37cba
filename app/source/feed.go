package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedSource polls an RSS or Atom feed, such as a wiki recent changes feed,
// and yields the titles it has not seen before. It never runs dry.
type FeedSource struct {
	url    string
	parser *gofeed.Parser
	seen   map[string]struct{}
}

func NewFeedSource(feedURL, userAgent string, timeout time.Duration) *FeedSource {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: timeout}

	return &FeedSource{
		url:    feedURL,
		parser: parser,
		seen:   make(map[string]struct{}),
	}
}

func (s *FeedSource) Next(ctx context.Context) ([]string, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var batch []string
	for _, item := range feed.Items {
		title := itemTitle(item)
		if title == "" {
			continue
		}
		title = TalkTitle(title)
		if _, ok := s.seen[title]; ok {
			continue
		}
		s.seen[title] = struct{}{}
		batch = append(batch, title)
	}
	return batch, nil
}

// itemTitle prefers the title query parameter of the item link, which
// MediaWiki feeds always carry, over the display title.
func itemTitle(item *gofeed.Item) string {
	if item.Link != "" {
		if u, err := url.Parse(item.Link); err == nil {
			if title := u.Query().Get("title"); title != "" {
				return title
			}
		}
	}
	return strings.TrimSpace(item.Title)
}

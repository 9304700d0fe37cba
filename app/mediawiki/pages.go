package mediawiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Revision struct {
	Title     string
	Text      string
	RevID     int64
	Timestamp time.Time
}

type queryPage struct {
	Title     string `json:"title"`
	Missing   bool   `json:"missing"`
	Invalid   bool   `json:"invalid"`
	Revisions []struct {
		RevID     int64     `json:"revid"`
		Timestamp time.Time `json:"timestamp"`
		Slots     struct {
			Main struct {
				Content string `json:"content"`
			} `json:"main"`
		} `json:"slots"`
	} `json:"revisions"`
}

type queryResponse struct {
	Continue map[string]string `json:"continue"`
	Query    struct {
		Normalized []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"normalized"`
		Pages      []queryPage `json:"pages"`
		Backlinks  []pageRef   `json:"backlinks"`
		EmbeddedIn []pageRef   `json:"embeddedin"`
		Tokens     struct {
			LoginToken string `json:"logintoken"`
			CSRFToken  string `json:"csrftoken"`
		} `json:"tokens"`
	} `json:"query"`
}

type pageRef struct {
	Title string `json:"title"`
}

// PageText returns the latest revision of a page.
func (c *Client) PageText(ctx context.Context, title string) (*Revision, error) {
	var resp queryResponse
	err := c.get(ctx, url.Values{
		"action":  {"query"},
		"prop":    {"revisions"},
		"titles":  {title},
		"rvprop":  {"content|ids|timestamp"},
		"rvslots": {"main"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", title, err)
	}

	if len(resp.Query.Pages) != 1 {
		return nil, fmt.Errorf("expected one page for %s, got %d", title, len(resp.Query.Pages))
	}
	page := resp.Query.Pages[0]
	if page.Missing || page.Invalid || len(page.Revisions) == 0 {
		return nil, fmt.Errorf("%s: %w", title, ErrPageMissing)
	}

	rev := page.Revisions[0]
	return &Revision{
		Title:     page.Title,
		Text:      rev.Slots.Main.Content,
		RevID:     rev.RevID,
		Timestamp: rev.Timestamp,
	}, nil
}

// Redirects lists every page redirecting to title.
func (c *Client) Redirects(ctx context.Context, title string) ([]string, error) {
	params := url.Values{
		"action":        {"query"},
		"list":          {"backlinks"},
		"bltitle":       {title},
		"blfilterredir": {"redirects"},
		"bllimit":       {"max"},
	}

	var titles []string
	for {
		var resp queryResponse
		if err := c.get(ctx, params, &resp); err != nil {
			return nil, fmt.Errorf("failed to list redirects to %s: %w", title, err)
		}
		for _, ref := range resp.Query.Backlinks {
			titles = append(titles, ref.Title)
		}
		if len(resp.Continue) == 0 {
			return titles, nil
		}
		for k, v := range resp.Continue {
			params.Set(k, v)
		}
	}
}

// CheckExistence reports which of two pages exist. Titles in the response
// that match neither are an error.
func (c *Client) CheckExistence(ctx context.Context, primary, backup string) (bool, bool, error) {
	var resp queryResponse
	if err := c.get(ctx, url.Values{
		"action": {"query"},
		"titles": {primary + "|" + backup},
	}, &resp); err != nil {
		return false, false, fmt.Errorf("failed to query %s and %s: %w", primary, backup, err)
	}

	canonical := map[string]string{primary: primary, backup: backup}
	for _, n := range resp.Query.Normalized {
		canonical[n.From] = n.To
	}
	primaryTitle, backupTitle := canonical[primary], canonical[backup]

	var primaryExists, backupExists bool
	for _, page := range resp.Query.Pages {
		switch page.Title {
		case primaryTitle:
			primaryExists = !page.Missing && !page.Invalid
		case backupTitle:
			backupExists = !page.Missing && !page.Invalid
		default:
			return false, false, fmt.Errorf("unrecognized title %s in response", page.Title)
		}
	}
	return primaryExists, backupExists, nil
}

// EmbeddedIn returns one batch of pages in namespace that transclude title,
// and the token to pass back for the next batch. An empty token means the
// listing is complete.
func (c *Client) EmbeddedIn(ctx context.Context, title string, namespace int, cont string) ([]string, string, error) {
	params := url.Values{
		"action":      {"query"},
		"list":        {"embeddedin"},
		"eititle":     {title},
		"einamespace": {strconv.Itoa(namespace)},
		"eilimit":     {"max"},
	}
	if cont != "" {
		params.Set("eicontinue", cont)
		params.Set("continue", "-||")
	}

	var resp queryResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, "", fmt.Errorf("failed to list transclusions of %s: %w", title, err)
	}

	titles := make([]string, 0, len(resp.Query.EmbeddedIn))
	for _, ref := range resp.Query.EmbeddedIn {
		titles = append(titles, ref.Title)
	}
	return titles, resp.Continue["eicontinue"], nil
}

// RenderedHTML returns the parsed HTML of a page.
func (c *Client) RenderedHTML(ctx context.Context, title string) (string, error) {
	var resp struct {
		Parse struct {
			Text string `json:"text"`
		} `json:"parse"`
	}
	if err := c.get(ctx, url.Values{
		"action": {"parse"},
		"page":   {title},
		"prop":   {"text"},
	}, &resp); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", title, err)
	}
	if strings.TrimSpace(resp.Parse.Text) == "" {
		return "", fmt.Errorf("%s rendered to nothing", title)
	}
	return resp.Parse.Text, nil
}

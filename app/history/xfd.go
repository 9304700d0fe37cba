package history

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"
)

const discussionPrefix = "Wikipedia:Articles for deletion/"

type XfDEntry struct {
	Date   string
	Page   string
	Result string

	// DateParam is the template parameter Date was read from.
	DateParam string
}

func (e XfDEntry) Prefix() string { return "xfd" }

func (e XfDEntry) Params() []Param {
	params := []Param{{"date", e.Date}}
	if e.Page != "" {
		params = append(params, Param{"link", e.Page})
	}
	return append(params, Param{"result", e.Result})
}

func (e XfDEntry) Action(parse TimestampParser) (Action, error) {
	parsed, err := parse(e.Date)
	if err != nil {
		return Action{}, dateError(KindXfD, cmp.Or(e.DateParam, "date"), e.Date, err)
	}
	return Action{
		Code:   "AFD",
		Date:   e.Date,
		Parsed: parsed,
		Link:   e.Page,
		Result: e.Result,
	}, nil
}

type XfDAdapter struct {
	closeDates CloseDateFinder
}

// NewXfDAdapter returns an XfD adapter. When closeDates is set, a missing
// date is looked up from the discussion page.
func NewXfDAdapter(closeDates CloseDateFinder) *XfDAdapter {
	return &XfDAdapter{closeDates: closeDates}
}

func (a *XfDAdapter) Adapt(ctx context.Context, article string, tmpl *Template) ([]Entry, error) {
	params := tmpl.Named
	if t, ok := params.Get("type"); ok && t != "article" && t != "page" {
		return nil, schemaError(KindXfD, "type", fmt.Errorf("%w: %q", ErrUnsupportedType, t))
	}
	for _, key := range params.Keys() {
		if strings.HasPrefix(key, "link") {
			return nil, schemaError(KindXfD, key, ErrUnsupportedLink)
		}
	}

	page1 := article
	if key, raw, ok := params.First("page", "page1", "votepage", "votepage1"); ok {
		sanitized, err := sanitizeTitle(raw)
		if err != nil {
			return nil, schemaError(KindXfD, key, err)
		}
		page1 = sanitized
	} else {
		slog.Warn("Falling back to article title for discussion page", "page", article, "item", 1)
	}
	page1 = requireDiscussionPrefix(page1)

	dateKey, date1, ok := params.First("date", "date1")
	if !ok || date1 == "" {
		dateKey = "date"
		if a.closeDates == nil {
			return nil, schemaError(KindXfD, "date", ErrMissingParameter)
		}
		found, err := a.closeDates.FindCloseDate(ctx, page1)
		if err != nil {
			return nil, collaboratorError(KindXfD, "date", fmt.Errorf("failed to find close date of %q: %w", page1, err))
		}
		date1 = found
	}

	key, result1, _ := params.First("result", "result1")
	result1, err := sanitizeResult(article, 1, key, result1)
	if err != nil {
		return nil, err
	}

	entries := []Entry{XfDEntry{Date: date1, Page: page1, Result: result1, DateParam: dateKey}}
	for n := 2; params.Has(fmt.Sprintf("date%d", n)); n++ {
		if n > MaxEntries {
			return nil, schemaError(KindXfD, fmt.Sprintf("date%d", n), ErrTooManyEntries)
		}

		dateKey := fmt.Sprintf("date%d", n)
		entry := XfDEntry{Date: params.Value(dateKey), DateParam: dateKey}
		if key, raw, ok := params.First(fmt.Sprintf("page%d", n), fmt.Sprintf("votepage%d", n)); ok {
			sanitized, err := sanitizeTitle(raw)
			if err != nil {
				return nil, schemaError(KindXfD, key, err)
			}
			entry.Page = requireDiscussionPrefix(sanitized)
		}

		resultKey := fmt.Sprintf("result%d", n)
		entry.Result, err = sanitizeResult(article, n, resultKey, params.Value(resultKey))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// sanitizeTitle decodes percent-escapes, cuts the title at the first pipe
// and drops bracket characters. Malformed escapes are kept literally.
func sanitizeTitle(raw string) (string, error) {
	title := raw
	if decoded, err := url.PathUnescape(raw); err == nil {
		title = decoded
	}
	if !utf8.ValidString(title) {
		return "", fmt.Errorf("title %q is not valid UTF-8 once decoded", raw)
	}
	if i := strings.IndexByte(title, '|'); i >= 0 {
		title = title[:i]
	}
	title = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '{', '}':
			return -1
		}
		return r
	}, title)
	return strings.TrimSpace(title), nil
}

func requireDiscussionPrefix(title string) string {
	lowered := strings.ToLower(title)
	if strings.HasPrefix(lowered, "wp:articles for deletion/") || strings.HasPrefix(lowered, "wikipedia:articles for deletion/") {
		return title
	}
	return discussionPrefix + title
}

func sanitizeResult(article string, item int, key, result string) (string, error) {
	result = strings.TrimSpace(result)
	if result == "" {
		slog.Warn("Assuming discussion result was keep", "page", article, "item", item)
		return "keep", nil
	}
	for _, r := range result {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '\'' || r == ' ') {
			return "", schemaError(KindXfD, key, fmt.Errorf("%w: %q", ErrInvalidResult, result))
		}
	}
	if len(result) >= 6 && strings.HasPrefix(result, "'''") && strings.HasSuffix(result, "'''") {
		result = strings.TrimSpace(result[3 : len(result)-3])
	}
	return result, nil
}

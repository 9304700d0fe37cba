// Package wikidate parses the free-form dates found in talk page banners and
// signatures.
package wikidate

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var layouts = []string{
	"15:04, 2 January 2006",
	"15:04, January 2, 2006",
	"15:04, 2 Jan 2006",
	"2 January 2006 15:04",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"January 2 2006",
	"2006-01-02",
	time.RFC3339,
}

// Parse turns a wiki date into a UTC timestamp. A trailing " (UTC)" from a
// signature is ignored.
func Parse(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	s = strings.TrimSpace(strings.TrimSuffix(s, "(UTC)"))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", value, err)
	}
	return t.UTC(), nil
}

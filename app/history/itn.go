package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ITNEntry struct {
	Date time.Time
	Link string
}

func (e ITNEntry) Prefix() string { return "itn" }

func (e ITNEntry) Params() []Param {
	params := []Param{{"date", e.Date.Format("2006-01-02")}}
	if e.Link != "" {
		params = append(params, Param{"link", e.Link})
	}
	return params
}

type ITNAdapter struct {
	parse TimestampParser
}

func NewITNAdapter(parse TimestampParser) *ITNAdapter {
	return &ITNAdapter{parse: parse}
}

// Adapt reads item 1 and, when date2 is given, items 2 through 6. Numbered
// items are emitted before item 1.
func (a *ITNAdapter) Adapt(ctx context.Context, article string, tmpl *Template) ([]Entry, error) {
	globalAlt := tmpl.Named.Value("alt") != ""

	var entries []Entry
	if tmpl.Named.Has("date2") {
		for n := 2; n <= 6; n++ {
			key := fmt.Sprintf("date%d", n)
			entry, ok, err := a.item(tmpl, key, tmpl.Named.Value(key),
				tmpl.Named.Value(fmt.Sprintf("oldid%d", n)),
				globalAlt || tmpl.Named.Value(fmt.Sprintf("alt%d", n)) != "")
			if err != nil {
				return nil, err
			}
			if ok {
				entries = append(entries, entry)
			}
		}
	}

	key, date1, ok := tmpl.Named.First("date", "date1")
	if !ok {
		key = "1"
		date1 = positionalAt(tmpl, 0) + " " + positionalAt(tmpl, 1)
	}
	_, oldid1, _ := tmpl.Named.First("oldid1", "oldid")
	entry1, ok, err := a.item(tmpl, key, strings.TrimSpace(date1), strings.TrimSpace(oldid1),
		globalAlt || tmpl.Named.Value("alt1") != "")
	if err != nil {
		return nil, err
	}
	if ok {
		entries = append(entries, entry1)
	}

	return entries, nil
}

func (a *ITNAdapter) item(tmpl *Template, key, date, oldid string, alt bool) (Entry, bool, error) {
	if date == "" {
		return nil, false, nil
	}
	parsed, err := a.parse(date)
	if err != nil {
		return nil, false, dateError(KindITN, key, date, err)
	}

	entry := ITNEntry{Date: parsed}
	if alt {
		entry.Link = "Portal:Current events/" + parsed.Format("2006 January 02")
	} else if id, err := strconv.ParseUint(oldid, 10, 32); err == nil {
		entry.Link = fmt.Sprintf("Special:Permalink/%d", id)
	}
	return entry, true, nil
}

func positionalAt(tmpl *Template, i int) string {
	if i < len(tmpl.Positional) {
		return strings.TrimSpace(tmpl.Positional[i])
	}
	return ""
}

package history

import (
	"context"
	"fmt"
)

type OTDEntry struct {
	Date    string
	HasDate bool
	Oldid   string
}

func (e OTDEntry) Prefix() string { return "otd" }

func (e OTDEntry) Params() []Param {
	var params []Param
	if e.HasDate {
		params = append(params, Param{"date", e.Date})
	}
	return append(params, Param{"oldid", e.Oldid})
}

type OTDAdapter struct{}

func NewOTDAdapter() *OTDAdapter {
	return &OTDAdapter{}
}

// Adapt emits one entry per oldidN parameter, stopping at the first gap.
func (a *OTDAdapter) Adapt(ctx context.Context, article string, tmpl *Template) ([]Entry, error) {
	var entries []Entry
	for n := 1; ; n++ {
		oldid, ok := tmpl.Named.Get(fmt.Sprintf("oldid%d", n))
		if !ok {
			break
		}
		if n > MaxEntries {
			return nil, schemaError(KindOTD, fmt.Sprintf("oldid%d", n), ErrTooManyEntries)
		}
		date, hasDate := tmpl.Named.Get(fmt.Sprintf("date%d", n))
		entries = append(entries, OTDEntry{Date: date, HasDate: hasDate, Oldid: oldid})
	}
	return entries, nil
}

package history

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

type DYKEntry struct {
	Date    string
	Hook    string
	NomPage string
}

func (e DYKEntry) Prefix() string { return "dyk" }

func (e DYKEntry) Params() []Param {
	params := []Param{{"date", e.Date}}
	if e.Hook != "" {
		params = append(params, Param{"entry", e.Hook})
	}
	if e.NomPage != "" {
		params = append(params, Param{"nom", e.NomPage})
	}
	return params
}

type DYKAdapter struct {
	checker PageChecker
}

// NewDYKAdapter returns a DYK adapter. Without a checker the nomination
// page is only taken from the template itself.
func NewDYKAdapter(checker PageChecker) *DYKAdapter {
	return &DYKAdapter{checker: checker}
}

func (a *DYKAdapter) Adapt(ctx context.Context, article string, tmpl *Template) ([]Entry, error) {
	positional := make([]string, len(tmpl.Positional))
	for i, p := range tmpl.Positional {
		positional[i] = strings.TrimSpace(p)
	}
	if len(positional) == 0 || positional[0] == "" {
		return nil, schemaError(KindDYK, "1", ErrMissingParameter)
	}

	entry := DYKEntry{Date: positional[0]}
	hookIndex := 1
	if len(positional) > 1 && isNumeric(positional[1]) {
		entry.Date = positional[0] + " " + positional[1]
		hookIndex = 2
	}

	if hook := tmpl.Named.Value("entry"); hook != "" {
		entry.Hook = hook
	} else if hookIndex < len(positional) {
		entry.Hook = positional[hookIndex]
	}

	nomPage, err := a.nominationPage(ctx, article, tmpl)
	if err != nil {
		return nil, err
	}
	entry.NomPage = nomPage

	return []Entry{entry}, nil
}

func (a *DYKAdapter) nominationPage(ctx context.Context, article string, tmpl *Template) (string, error) {
	if page := tmpl.Named.Value("nompage"); page != "" {
		return page, nil
	}
	if a.checker == nil {
		return "", nil
	}

	primary := "Template:Did you know nominations/" + article
	backup := "Template talk:Did you know/" + article
	primaryExists, backupExists, err := a.checker.CheckExistence(ctx, primary, backup)
	if err != nil {
		return "", collaboratorError(KindDYK, "nompage", fmt.Errorf("failed to check nomination pages: %w", err))
	}

	switch {
	case primaryExists:
		return primary, nil
	case backupExists:
		return backup, nil
	default:
		return "", nil
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

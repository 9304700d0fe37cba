package history

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// SplitLead splits text before the first line that starts a second-level
// heading. Deeper headings stay in the lead. Only the lead is ever
// rewritten.
func SplitLead(text string) (lead, rest string) {
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], "==") && !strings.HasPrefix(text[i:], "===") {
			return text[:i], text[i:]
		}
		next := strings.IndexByte(text[i:], '\n')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return text, ""
}

type Rewriter struct {
	extractor      *Extractor
	adapters       map[Kind]Adapter
	parseTimestamp TimestampParser

	// CreateIfAbsent adds an empty aggregate to pages that have source
	// templates but no aggregate.
	CreateIfAbsent bool
}

func NewRewriter(extractor *Extractor, adapters map[Kind]Adapter, parseTimestamp TimestampParser) *Rewriter {
	return &Rewriter{
		extractor:      extractor,
		adapters:       adapters,
		parseTimestamp: parseTimestamp,
	}
}

type Result struct {
	Text    string
	Changed bool
	Merged  []Entry
}

// Run folds the source templates in the lead of text into its aggregate.
// article is the subject page title. On error no text is returned.
func (r *Rewriter) Run(ctx context.Context, article, text string) (*Result, error) {
	result, err := r.run(ctx, article, text)
	if err != nil {
		return nil, withPage(err, article)
	}
	return result, nil
}

func (r *Rewriter) run(ctx context.Context, article, text string) (*Result, error) {
	lead, rest := SplitLead(text)
	templates, err := r.extractor.Run(lead)
	if err != nil {
		return nil, err
	}

	var aggregate *Template
	var sources []Template
	for i := range templates {
		switch {
		case templates[i].Kind == KindArticleHistory:
			if aggregate != nil {
				return nil, schemaError(KindArticleHistory, "", ErrAmbiguousAggregate)
			}
			aggregate = &templates[i]
		case templates[i].Kind.IsSource():
			sources = append(sources, templates[i])
		}
	}

	if len(sources) == 0 {
		return &Result{Text: text}, nil
	}

	var history *History
	if aggregate != nil {
		history, err = ParseHistory(aggregate, r.parseTimestamp)
		if err != nil {
			return nil, err
		}
	} else if r.CreateIfAbsent {
		history = NewHistory()
	} else {
		return nil, schemaError(KindArticleHistory, "", ErrNoAggregate)
	}

	slices.SortFunc(sources, func(a, b Template) int { return b.Span.Start - a.Span.Start })

	var merged []Entry
	var deletions []Splice
	for i := range sources {
		source := &sources[i]
		adapter, ok := r.adapters[source.Kind]
		if !ok {
			return nil, schemaError(source.Kind, "", fmt.Errorf("%w: %s", ErrNoAdapter, source.Name))
		}

		entries, err := adapter.Adapt(ctx, article, source)
		if err != nil {
			return nil, err
		}
		if err := r.fold(history, entries); err != nil {
			return nil, err
		}
		merged = append(merged, entries...)

		end := source.Span.End
		if end < len(lead) && lead[end] == '\n' {
			end++
		}
		deletions = append(deletions, Splice{Span: Span{Start: source.Span.Start, End: end}})
	}

	var newLead string
	if aggregate != nil {
		newLead, err = ApplySplices(lead, append(deletions, Splice{Span: aggregate.Span, Text: history.String()}))
		if err != nil {
			return nil, err
		}
	} else {
		stripped, err := ApplySplices(lead, deletions)
		if err != nil {
			return nil, err
		}
		newLead = appendAggregate(stripped, lead, history.String())
	}

	newText := newLead + rest
	return &Result{Text: newText, Changed: newText != text, Merged: merged}, nil
}

// fold merges entries into history: action entries become actions, the
// rest become numbered parameters.
func (r *Rewriter) fold(history *History, entries []Entry) error {
	var params []Entry
	var actions []Action
	for _, entry := range entries {
		if ae, ok := entry.(ActionEntry); ok {
			action, err := ae.Action(r.parseTimestamp)
			if err != nil {
				return err
			}
			actions = append(actions, action)
			continue
		}
		params = append(params, entry)
	}

	if len(actions) > 0 {
		history.AddActions(actions...)
	}
	if err := Merge(history.Other, params); err != nil {
		return schemaError(KindArticleHistory, "", err)
	}
	return nil
}

// appendAggregate places a new aggregate at the end of the lead, before the
// blank lines that separate it from the first section.
func appendAggregate(stripped, original, aggregate string) string {
	trailing := original[len(strings.TrimRight(original, "\n")):]
	body := strings.TrimRight(stripped, "\n")
	if body == "" {
		return aggregate + trailing
	}
	return body + "\n" + aggregate + trailing
}

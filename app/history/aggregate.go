package history

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// AggregateName is the canonical name the aggregate template is written
// back with.
const AggregateName = "Article history"

// Action is one numbered event of the aggregate. Empty optional fields are
// omitted on output.
type Action struct {
	Code   string
	Date   string
	Parsed time.Time
	Link   string
	Result string
	Oldid  string
}

// History is the parsed aggregate: its actions in order plus every other
// parameter untouched.
type History struct {
	Actions []Action
	Other   *Params
}

func NewHistory() *History {
	return &History{Other: NewParams()}
}

func actionKey(n int, field string) string {
	return fmt.Sprintf("action%d%s", n, field)
}

// ParseHistory reads the action blocks out of an aggregate template. The
// template's parameters are not modified.
func ParseHistory(tmpl *Template, parse TimestampParser) (*History, error) {
	for i, value := range tmpl.Positional {
		if strings.TrimSpace(value) != "" {
			return nil, schemaError(KindArticleHistory, fmt.Sprintf("%d", i+1), ErrPositionalParameter)
		}
	}

	params := tmpl.Named.Clone()
	codeEnd := firstMissing(params, "")
	dateEnd := firstMissing(params, "date")
	if codeEnd != dateEnd {
		return nil, schemaError(KindArticleHistory, actionKey(min(codeEnd, dateEnd), ""),
			fmt.Errorf("%w: codes stop at action%d, dates stop at action%ddate", ErrActionCountMismatch, codeEnd, dateEnd))
	}
	if codeEnd > MaxEntries {
		return nil, schemaError(KindArticleHistory, "", fmt.Errorf("%w: more than %d actions", ErrTooManyEntries, MaxEntries))
	}

	h := &History{}
	for n := 1; n < codeEnd; n++ {
		action := Action{}
		for field, dst := range map[string]*string{
			"":       &action.Code,
			"date":   &action.Date,
			"link":   &action.Link,
			"result": &action.Result,
			"oldid":  &action.Oldid,
		} {
			key := actionKey(n, field)
			*dst, _ = params.Get(key)
			params.Delete(key)
		}

		parsed, err := parse(action.Date)
		if err != nil {
			return nil, dateError(KindArticleHistory, actionKey(n, "date"), action.Date, err)
		}
		action.Parsed = parsed
		h.Actions = append(h.Actions, action)
	}
	h.Other = params
	return h, nil
}

// firstMissing returns the first n for which action{n}{field} is absent.
func firstMissing(params *Params, field string) int {
	n := 1
	for params.Has(actionKey(n, field)) && n <= MaxEntries {
		n++
	}
	return n
}

// AddActions appends actions and re-sorts the whole list by date. Actions
// on the same date keep their order.
func (h *History) AddActions(actions ...Action) {
	h.Actions = append(h.Actions, actions...)
	slices.SortStableFunc(h.Actions, func(a, b Action) int {
		return a.Parsed.Compare(b.Parsed)
	})
}

// String renders the canonical wikitext of the aggregate.
func (h *History) String() string {
	var b strings.Builder
	b.WriteString("{{" + AggregateName + "\n")

	for i, action := range h.Actions {
		if i > 0 {
			b.WriteString("\n")
		}
		n := i + 1
		writeParam(&b, actionKey(n, ""), action.Code)
		writeParam(&b, actionKey(n, "date"), action.Date)
		for _, opt := range []struct{ field, value string }{
			{"link", action.Link},
			{"result", action.Result},
			{"oldid", action.Oldid},
		} {
			if opt.value != "" {
				writeParam(&b, actionKey(n, opt.field), opt.value)
			}
		}
	}

	if len(h.Actions) > 0 && h.Other.Len() > 0 {
		b.WriteString("\n")
	}
	for _, key := range h.Other.Keys() {
		value, _ := h.Other.Get(key)
		writeParam(&b, key, value)
	}

	b.WriteString("}}")
	return b.String()
}

func writeParam(b *strings.Builder, key, value string) {
	b.WriteString("|")
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(value)
	b.WriteString("\n")
}

package templates

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/enterprisey/article-history/app/history"
)

// RedirectResolver lists the titles that redirect to a template.
type RedirectResolver interface {
	Redirects(ctx context.Context, title string) ([]string, error)
}

// Table is the alias table for one run.
type Table struct {
	aliases history.AliasTable
	sources []string
}

// Build turns cfg into an alias table, adding every redirect the resolver
// reports. resolver may be nil.
func Build(ctx context.Context, cfg *Config, resolver RedirectResolver) (*Table, error) {
	t := &Table{aliases: history.AliasTable{}}
	for _, entry := range cfg.Templates {
		kind, ok := history.ParseKind(entry.Kind)
		if !ok {
			return nil, fmt.Errorf("unknown kind '%s'", entry.Kind)
		}

		names := append([]string{entry.Title}, entry.Aliases...)
		if resolver != nil {
			redirects, err := resolver.Redirects(ctx, "Template:"+entry.Title)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve redirects to %s: %w", entry.Title, err)
			}
			names = append(names, redirects...)
		}

		for _, name := range names {
			t.aliases.Add(name, kind)
			if kind.IsSource() {
				t.sources = append(t.sources, strings.ToLower(history.NormalizeTitle(name)))
			}
		}
		slog.Debug("Template aliases loaded", "template", entry.Title, "kind", kind, "names", len(names))
	}
	return t, nil
}

func (t *Table) Aliases() history.AliasTable {
	return t.aliases
}

// MentionsSource reports whether text may contain a source template. It
// errs on the side of yes.
func (t *Table) MentionsSource(text string) bool {
	lowered := strings.ToLower(strings.ReplaceAll(text, "_", " "))
	for _, name := range t.sources {
		if strings.Contains(lowered, name) {
			return true
		}
	}
	return false
}

package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/enterprisey/article-history/app/history"
)

type fakeResolver struct {
	redirects map[string][]string
}

func (f *fakeResolver) Redirects(ctx context.Context, title string) ([]string, error) {
	return f.redirects[title], nil
}

func TestAggregateTitle(t *testing.T) {
	if got := DefaultConfig().AggregateTitle(); got != "Template:Article history" {
		t.Errorf("Expected 'Template:Article history', got '%s'", got)
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cfg.Templates) != len(DefaultConfig().Templates) {
		t.Errorf("Expected default templates, got %d", len(cfg.Templates))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yml")
	data := `templates:
  - kind: article-history
    title: Article history
    aliases: [ArticleHistory]
  - kind: dyk
    title: DYK talk
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cfg.Templates) != 2 {
		t.Fatalf("Expected 2 templates, got %d", len(cfg.Templates))
	}
	if cfg.Templates[0].Aliases[0] != "ArticleHistory" {
		t.Errorf("Expected alias ArticleHistory, got %v", cfg.Templates[0].Aliases)
	}
}

func TestLoadFileValidation(t *testing.T) {
	tests := map[string]string{
		"unknown kind":   "templates:\n  - kind: banner\n    title: Foo\n",
		"no aggregate":   "templates:\n  - kind: dyk\n    title: DYK talk\n",
		"missing title":  "templates:\n  - kind: article-history\n",
		"two aggregates": "templates:\n  - kind: article-history\n    title: A\n  - kind: article-history\n    title: B\n",
	}
	for name, data := range tests {
		path := filepath.Join(t.TempDir(), "templates.yml")
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestBuild(t *testing.T) {
	resolver := &fakeResolver{redirects: map[string][]string{
		"Template:DYK talk": {"Template:Did you know talk"},
	}}
	table, err := Build(context.Background(), DefaultConfig(), resolver)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	aliases := table.Aliases()
	tests := map[string]history.Kind{
		"did you know talk": history.KindDYK,
		"ArticleHistory":    history.KindArticleHistory,
		"Old XfD multi":     history.KindXfD,
		"WikiProject Foo":   history.KindUnknown,
	}
	for name, expected := range tests {
		if got := aliases.Lookup(name); got != expected {
			t.Errorf("Lookup(%q): expected %s, got %s", name, expected, got)
		}
	}
}

func TestMentionsSource(t *testing.T) {
	table, err := Build(context.Background(), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !table.MentionsSource("{{dyk_talk|1 May 2020}}") {
		t.Error("Expected DYK mention to be found")
	}
	if table.MentionsSource("{{Article history|currentstatus=GA}}") {
		t.Error("Expected aggregate alone not to count")
	}
}

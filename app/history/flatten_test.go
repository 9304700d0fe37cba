package history

import (
	"errors"
	"testing"

	"github.com/enterprisey/article-history/app/wikitext"
)

func parseValue(t *testing.T, text string) []wikitext.Node {
	t.Helper()
	out := wikitext.Parse(text)
	if len(out.Warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", out.Warnings)
	}
	return out.Nodes
}

func TestFlattenPolicies(t *testing.T) {
	nodes := parseValue(t, "... that '''[[Foo|the foo]]''' is ''[[Bar]]''?")

	tests := []struct {
		policy   FlattenPolicy
		expected string
	}{
		{StripMarkup, "... that the foo is Bar?"},
		{KeepMarkup, "... that '''[[Foo|the foo]]''' is ''[[Bar]]''?"},
	}
	for _, tt := range tests {
		got, err := Flatten(nodes, tt.policy)
		if err != nil {
			t.Errorf("Flatten(%d) returned error: %v", tt.policy, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Flatten(%d): expected %q, got %q", tt.policy, tt.expected, got)
		}
	}

	_, err := Flatten(nodes, RequirePureText)
	var fe *FlattenError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FlattenError, got %v", err)
	}
	if fe.Node != wikitext.NodeBold {
		t.Errorf("Expected first offending node to be bold, got %s", fe.Node)
	}
}

func TestFlattenSingleTextIsSubstring(t *testing.T) {
	text := "plain value"
	got, err := Flatten(parseValue(t, text), RequirePureText)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != text {
		t.Errorf("Expected %q, got %q", text, got)
	}
}

func TestFlattenRejectsTemplates(t *testing.T) {
	for _, policy := range []FlattenPolicy{RequirePureText, StripMarkup, KeepMarkup} {
		if _, err := Flatten(parseValue(t, "a {{b}} c"), policy); err == nil {
			t.Errorf("Expected error for policy %d", policy)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := [][2]string{
		{"dYK talk", "DYK talk"},
		{"  Template:article_history ", "Article history"},
		{"template:Old  XfD multi", "Old XfD multi"},
		{"élan", "Élan"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt[0]); got != tt[1] {
			t.Errorf("NormalizeTitle(%q): expected %q, got %q", tt[0], tt[1], got)
		}
	}
}

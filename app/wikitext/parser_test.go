package wikitext

import (
	"testing"
)

func TestParseTemplate(t *testing.T) {
	text := "before {{DYK talk|1 January|2010|entry=... that '''[[Foo]]''' is bar?}} after"
	out := Parse(text)

	if len(out.Warnings) != 0 {
		t.Fatalf("Expected no warnings, got %v", out.Warnings)
	}
	if len(out.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(out.Nodes))
	}

	tmpl := out.Nodes[1]
	if tmpl.Type != NodeTemplate {
		t.Fatalf("Expected template node, got %s", tmpl.Type)
	}
	if got := text[tmpl.Start:tmpl.End]; got != "{{DYK talk|1 January|2010|entry=... that '''[[Foo]]''' is bar?}}" {
		t.Errorf("Unexpected template span %q", got)
	}
	if len(tmpl.Name) != 1 || tmpl.Name[0].Value != "DYK talk" {
		t.Errorf("Expected name 'DYK talk', got %+v", tmpl.Name)
	}
	if len(tmpl.Parameters) != 3 {
		t.Fatalf("Expected 3 parameters, got %d", len(tmpl.Parameters))
	}
	if tmpl.Parameters[0].Name != nil || tmpl.Parameters[0].Value[0].Value != "1 January" {
		t.Errorf("Unexpected first parameter %+v", tmpl.Parameters[0])
	}

	entry := tmpl.Parameters[2]
	if len(entry.Name) != 1 || entry.Name[0].Value != "entry" {
		t.Fatalf("Expected named parameter 'entry', got %+v", entry.Name)
	}
	var types []NodeType
	for _, n := range entry.Value {
		types = append(types, n.Type)
	}
	want := []NodeType{NodeText, NodeBold, NodeLink, NodeBold, NodeText}
	if len(types) != len(want) {
		t.Fatalf("Expected value nodes %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Expected node %d to be %s, got %s", i, want[i], types[i])
		}
	}
	if entry.Value[2].Target != "Foo" || entry.Value[2].Nodes != nil {
		t.Errorf("Expected unpiped link to Foo, got %+v", entry.Value[2])
	}
}

func TestParseNestedTemplate(t *testing.T) {
	out := Parse("{{outer|a={{inner|x=1}}|b}}")
	if len(out.Nodes) != 1 || out.Nodes[0].Type != NodeTemplate {
		t.Fatalf("Expected a single template, got %+v", out.Nodes)
	}
	params := out.Nodes[0].Parameters
	if len(params) != 2 {
		t.Fatalf("Expected 2 parameters, got %d", len(params))
	}
	if len(params[0].Value) != 1 || params[0].Value[0].Type != NodeTemplate {
		t.Errorf("Expected nested template value, got %+v", params[0].Value)
	}
}

func TestParseUnclosedTemplate(t *testing.T) {
	out := Parse("text {{broken|a=b")
	if len(out.Warnings) != 1 || out.Warnings[0].Kind != WarnUnclosedTemplate {
		t.Fatalf("Expected one unclosed template warning, got %v", out.Warnings)
	}
	for _, n := range out.Nodes {
		if n.Type != NodeText {
			t.Errorf("Expected only text nodes, got %s", n.Type)
		}
	}
}

func TestParsePipedLink(t *testing.T) {
	out := Parse("[[Target page|shown ''text'']]")
	if len(out.Nodes) != 1 {
		t.Fatalf("Expected one node, got %d", len(out.Nodes))
	}
	link := out.Nodes[0]
	if link.Type != NodeLink || link.Target != "Target page" {
		t.Fatalf("Unexpected link %+v", link)
	}
	want := []NodeType{NodeText, NodeItalic, NodeText, NodeItalic}
	if len(link.Nodes) != len(want) {
		t.Fatalf("Expected %d display nodes, got %d", len(want), len(link.Nodes))
	}
	for i := range want {
		if link.Nodes[i].Type != want[i] {
			t.Errorf("Expected display node %d to be %s, got %s", i, want[i], link.Nodes[i].Type)
		}
	}
	if link.Nodes[0].Value != "shown " || link.Nodes[2].Value != "text" {
		t.Errorf("Unexpected display text %q and %q", link.Nodes[0].Value, link.Nodes[2].Value)
	}
}

func TestParseUnclosedLink(t *testing.T) {
	out := Parse("see [[Foo")
	if len(out.Warnings) != 1 || out.Warnings[0].Kind != WarnUnclosedLink {
		t.Errorf("Expected one unclosed link warning, got %v", out.Warnings)
	}
}

func TestParseApostrophes(t *testing.T) {
	tests := []struct {
		text string
		typ  NodeType
	}{
		{"''a", NodeItalic},
		{"'''a", NodeBold},
		{"'''''a", NodeBoldItalic},
	}
	for _, tt := range tests {
		out := Parse(tt.text)
		if out.Nodes[0].Type != tt.typ {
			t.Errorf("Parse(%q): expected %s, got %s", tt.text, tt.typ, out.Nodes[0].Type)
		}
	}

	out := Parse("''''a")
	if len(out.Nodes) != 3 || out.Nodes[0].Value != "'" || out.Nodes[1].Type != NodeBold {
		t.Errorf("Expected text apostrophe followed by bold, got %+v", out.Nodes)
	}
}

func TestParseCommentAndTags(t *testing.T) {
	out := Parse("a<!-- hidden {{x}} -->b<small>c</small><nowiki>{{y}}</nowiki>")
	if len(out.Warnings) != 0 {
		t.Fatalf("Expected no warnings, got %v", out.Warnings)
	}
	for _, n := range out.Nodes {
		if n.Type == NodeTemplate {
			t.Errorf("Expected no templates outside comments and nowiki, got one at %d", n.Start)
		}
	}

	out = Parse("x <foo>y</foo>")
	if len(out.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", out.Warnings)
	}
	if out.Warnings[0].Kind != WarnUnrecognizedTagName {
		t.Errorf("Expected unrecognized tag warning, got %s", out.Warnings[0].Kind)
	}

	out = Parse("x <!-- never closed")
	if len(out.Warnings) != 1 || out.Warnings[0].Kind != WarnUnclosedComment {
		t.Errorf("Expected unclosed comment warning, got %v", out.Warnings)
	}
}

func TestParseHeading(t *testing.T) {
	text := "{{a}}\n== Section ==\nbody {{b}}"
	out := Parse(text)
	var headings, templates int
	for _, n := range out.Nodes {
		switch n.Type {
		case NodeHeading:
			headings++
			if n.Level != 2 || n.Nodes[0].Value != " Section " {
				t.Errorf("Unexpected heading %+v", n)
			}
		case NodeTemplate:
			templates++
		}
	}
	if headings != 1 || templates != 2 {
		t.Errorf("Expected 1 heading and 2 templates, got %d and %d", headings, templates)
	}
}

func TestParseOffsetsCoverInput(t *testing.T) {
	text := "x {{a|b=[[c|d]]}} ''e'' [https://example.org f] {{{g}}} <br/> end"
	out := Parse(text)
	pos := 0
	for _, n := range out.Nodes {
		if n.Start != pos {
			t.Fatalf("Expected node at %d, got %d (%s)", pos, n.Start, n.Type)
		}
		pos = n.End
	}
	if pos != len(text) {
		t.Errorf("Expected nodes to end at %d, got %d", len(text), pos)
	}
}

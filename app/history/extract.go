package history

import (
	"fmt"
	"strings"

	"github.com/enterprisey/article-history/app/wikitext"
)

// Span is a half-open byte range in the text a template was extracted from.
type Span struct {
	Start int
	End   int
}

// Template is a recognized template invocation. Named values are trimmed,
// positional values are kept verbatim.
type Template struct {
	Kind       Kind
	Name       string
	Positional []string
	Named      *Params
	Span       Span
}

type Extractor struct {
	aliases AliasTable
}

func NewExtractor(aliases AliasTable) *Extractor {
	return &Extractor{aliases: aliases}
}

// Run returns the recognized top-level templates of text in document order.
func (e *Extractor) Run(text string) ([]Template, error) {
	out := wikitext.Parse(text)
	for _, w := range out.Warnings {
		if w.Kind != wikitext.WarnUnrecognizedTagName {
			return nil, markupError(fmt.Errorf("parser reported %s", w))
		}
	}

	var templates []Template
	for _, node := range out.Nodes {
		if node.Type != wikitext.NodeTemplate {
			continue
		}

		name, err := Flatten(node.Name, RequirePureText)
		if err != nil {
			return nil, markupError(fmt.Errorf("template name at byte %d: %w", node.Start, err))
		}
		name = strings.TrimSpace(name)
		kind := e.aliases.Lookup(name)
		if kind == KindUnknown {
			continue
		}

		tmpl, err := buildTemplate(kind, name, node)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

func buildTemplate(kind Kind, name string, node wikitext.Node) (Template, error) {
	tmpl := Template{
		Kind:  kind,
		Name:  name,
		Named: NewParams(),
		Span:  Span{Start: node.Start, End: node.End},
	}

	for i, param := range node.Parameters {
		value, err := Flatten(param.Value, KeepMarkup)
		if err != nil {
			return Template{}, &PageError{Kind: MarkupError, Template: kind, Param: fmt.Sprintf("#%d", i+1), Err: err}
		}
		if param.Name == nil {
			tmpl.Positional = append(tmpl.Positional, value)
			continue
		}

		key, err := Flatten(param.Name, RequirePureText)
		if err != nil {
			return Template{}, &PageError{Kind: MarkupError, Template: kind, Param: fmt.Sprintf("#%d", i+1), Err: err}
		}
		tmpl.Named.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return tmpl, nil
}

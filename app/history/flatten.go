package history

import (
	"fmt"
	"strings"

	"github.com/enterprisey/article-history/app/wikitext"
)

type FlattenPolicy int

const (
	// RequirePureText accepts only literal text.
	RequirePureText FlattenPolicy = iota
	// StripMarkup drops formatting and keeps the display text of links.
	StripMarkup
	// KeepMarkup re-emits formatting and links as wikitext.
	KeepMarkup
)

type FlattenError struct {
	Node   wikitext.NodeType
	Offset int
}

func (e *FlattenError) Error() string {
	return fmt.Sprintf("cannot flatten %s node at byte %d", e.Node, e.Offset)
}

// Flatten renders nodes as a single string. A lone text node is returned as
// the original substring.
func Flatten(nodes []wikitext.Node, policy FlattenPolicy) (string, error) {
	if len(nodes) == 1 && nodes[0].Type == wikitext.NodeText {
		return nodes[0].Value, nil
	}

	var b strings.Builder
	if err := flattenInto(&b, nodes, policy); err != nil {
		return "", err
	}
	return b.String(), nil
}

func flattenInto(b *strings.Builder, nodes []wikitext.Node, policy FlattenPolicy) error {
	for _, node := range nodes {
		if node.Type == wikitext.NodeText {
			b.WriteString(node.Value)
			continue
		}
		if policy == RequirePureText {
			return &FlattenError{Node: node.Type, Offset: node.Start}
		}

		switch node.Type {
		case wikitext.NodeBold, wikitext.NodeItalic, wikitext.NodeBoldItalic:
			if policy == KeepMarkup {
				b.WriteString(apostrophes(node.Type))
			}
		case wikitext.NodeLink:
			if err := flattenLink(b, node, policy); err != nil {
				return err
			}
		default:
			return &FlattenError{Node: node.Type, Offset: node.Start}
		}
	}
	return nil
}

func flattenLink(b *strings.Builder, node wikitext.Node, policy FlattenPolicy) error {
	if policy == StripMarkup {
		if node.Nodes == nil {
			b.WriteString(node.Target)
			return nil
		}
		return flattenInto(b, node.Nodes, policy)
	}

	b.WriteString("[[")
	b.WriteString(node.Target)
	if node.Nodes != nil {
		b.WriteByte('|')
		if err := flattenInto(b, node.Nodes, policy); err != nil {
			return err
		}
	}
	b.WriteString("]]")
	return nil
}

func apostrophes(t wikitext.NodeType) string {
	switch t {
	case wikitext.NodeBold:
		return "'''"
	case wikitext.NodeItalic:
		return "''"
	default:
		return "'''''"
	}
}

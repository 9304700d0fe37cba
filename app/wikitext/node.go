package wikitext

import "fmt"

type NodeType int

const (
	NodeText NodeType = iota
	NodeBold
	NodeItalic
	NodeBoldItalic
	NodeLink
	NodeExternalLink
	NodeTemplate
	NodeTemplateArgument
	NodeComment
	NodeTag
	NodeHeading
)

func (t NodeType) String() string {
	switch t {
	case NodeText:
		return "text"
	case NodeBold:
		return "bold"
	case NodeItalic:
		return "italic"
	case NodeBoldItalic:
		return "bold-italic"
	case NodeLink:
		return "link"
	case NodeExternalLink:
		return "external link"
	case NodeTemplate:
		return "template"
	case NodeTemplateArgument:
		return "template argument"
	case NodeComment:
		return "comment"
	case NodeTag:
		return "tag"
	case NodeHeading:
		return "heading"
	default:
		return fmt.Sprintf("node(%d)", int(t))
	}
}

// Node is one element of parsed markup. Start and End are byte offsets
// into the parsed text, End exclusive.
type Node struct {
	Type  NodeType
	Start int
	End   int

	// Value is the literal text of a Text node, the tag name of a Tag node,
	// and the raw source of Comment, ExternalLink and TemplateArgument nodes.
	Value string

	// Target is the link target of a Link node.
	Target string

	// Nodes holds the display text of a piped Link (nil when unpiped) and the
	// content of a Heading.
	Nodes []Node

	// Name and Parameters are set on Template nodes.
	Name       []Node
	Parameters []Parameter

	// Level is the heading level.
	Level int
}

// Parameter is one |-separated argument of a template invocation. Name is
// nil for positional parameters.
type Parameter struct {
	Name  []Node
	Value []Node
	Start int
	End   int
}

type WarningKind int

const (
	WarnUnclosedTemplate WarningKind = iota
	WarnUnclosedLink
	WarnUnclosedComment
	WarnUnrecognizedTagName
)

func (k WarningKind) String() string {
	switch k {
	case WarnUnclosedTemplate:
		return "unclosed template"
	case WarnUnclosedLink:
		return "unclosed link"
	case WarnUnclosedComment:
		return "unclosed comment"
	case WarnUnrecognizedTagName:
		return "unrecognized tag name"
	default:
		return fmt.Sprintf("warning(%d)", int(k))
	}
}

type Warning struct {
	Kind  WarningKind
	Start int
	End   int
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at bytes %d-%d", w.Kind, w.Start, w.End)
}

// Output is the result of parsing a page.
type Output struct {
	Nodes    []Node
	Warnings []Warning
}

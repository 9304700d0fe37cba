// Package wikitext parses MediaWiki markup into a shallow node tree with
// byte-accurate source offsets. It understands just enough of the language to
// locate template invocations and flatten their parameters: templates,
// template arguments, links, external links, bold/italic markers, comments,
// HTML-like tags and headings. Everything else is text.
package wikitext

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`^<(/?)([A-Za-z][A-Za-z0-9]*)\b[^<>]*?(/?)>`)

var knownTags = map[string]bool{
	"abbr": true, "b": true, "big": true, "blockquote": true, "br": true,
	"caption": true, "center": true, "code": true, "del": true, "div": true,
	"font": true, "gallery": true, "hr": true, "i": true, "includeonly": true,
	"ins": true, "math": true, "noinclude": true, "nowiki": true, "onlyinclude": true,
	"p": true, "poem": true, "pre": true, "ref": true, "references": true,
	"s": true, "section": true, "small": true, "span": true, "strike": true,
	"sub": true, "sup": true, "syntaxhighlight": true, "table": true, "td": true,
	"templatestyles": true, "th": true, "tr": true, "tt": true, "u": true,
}

type stops struct {
	pipe     bool
	braces   bool
	brackets bool
	equals   bool
	headings bool
}

type parser struct {
	text     string
	pos      int
	warnings []Warning
}

// Parse parses text. It never fails; malformed constructs are reported as
// warnings and the offending delimiters are kept as literal text.
func Parse(text string) Output {
	p := &parser{text: text}
	nodes := p.parseNodes(stops{headings: true})
	return Output{Nodes: nodes, Warnings: p.warnings}
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.text[p.pos:], s)
}

func (p *parser) atStop(s stops) bool {
	switch p.text[p.pos] {
	case '|':
		return s.pipe
	case '}':
		return s.braces && p.hasPrefix("}}")
	case ']':
		return s.brackets && p.hasPrefix("]]")
	case '=':
		return s.equals
	}
	return false
}

func (p *parser) parseNodes(s stops) []Node {
	var nodes []Node
	textStart := p.pos
	flush := func(end int) {
		if end > textStart {
			nodes = append(nodes, Node{Type: NodeText, Start: textStart, End: end, Value: p.text[textStart:end]})
		}
	}

	for p.pos < len(p.text) {
		if p.atStop(s) {
			break
		}

		start := p.pos
		var node Node
		var ok bool
		switch c := p.text[p.pos]; {
		case c == '<' && p.hasPrefix("<!--"):
			node, ok = p.parseComment()
		case c == '<':
			node, ok = p.parseTag()
		case c == '{' && p.hasPrefix("{{{"):
			node, ok = p.parseTemplateArgument()
		case c == '{' && p.hasPrefix("{{"):
			node, ok = p.parseTemplate()
		case c == '[' && p.hasPrefix("[["):
			node, ok = p.parseLink()
		case c == '[':
			node, ok = p.parseExternalLink()
		case c == '\'' && p.hasPrefix("''"):
			node, ok = p.parseApostrophes()
		case c == '=' && s.headings && (start == 0 || p.text[start-1] == '\n'):
			node, ok = p.parseHeading()
		}

		if ok {
			flush(node.Start)
			nodes = append(nodes, node)
			textStart = p.pos
			continue
		}
		p.pos = start + 1
	}

	flush(p.pos)
	return nodes
}

func (p *parser) parseComment() (Node, bool) {
	start := p.pos
	end := strings.Index(p.text[start+4:], "-->")
	if end < 0 {
		p.warnings = append(p.warnings, Warning{Kind: WarnUnclosedComment, Start: start, End: start + 4})
		p.pos = len(p.text)
	} else {
		p.pos = start + 4 + end + 3
	}
	return Node{Type: NodeComment, Start: start, End: p.pos, Value: p.text[start:p.pos]}, true
}

func (p *parser) parseTag() (Node, bool) {
	start := p.pos
	m := tagPattern.FindStringSubmatch(p.text[start:])
	if m == nil {
		return Node{}, false
	}
	name := strings.ToLower(m[2])
	if !knownTags[name] {
		p.warnings = append(p.warnings, Warning{Kind: WarnUnrecognizedTagName, Start: start, End: start + len(m[0])})
		return Node{}, false
	}

	p.pos = start + len(m[0])
	closing, selfClosing := m[1] == "/", m[3] == "/"
	if name == "nowiki" && !closing && !selfClosing {
		if end := strings.Index(strings.ToLower(p.text[p.pos:]), "</nowiki>"); end >= 0 {
			p.pos += end + len("</nowiki>")
		}
	}
	return Node{Type: NodeTag, Start: start, End: p.pos, Value: name}, true
}

func (p *parser) parseTemplateArgument() (Node, bool) {
	start := p.pos
	end := strings.Index(p.text[start+3:], "}}}")
	if end < 0 {
		return Node{}, false
	}
	p.pos = start + 3 + end + 3
	return Node{Type: NodeTemplateArgument, Start: start, End: p.pos, Value: p.text[start:p.pos]}, true
}

func (p *parser) parseTemplate() (Node, bool) {
	start := p.pos
	mark := len(p.warnings)
	p.pos += 2

	name := p.parseNodes(stops{pipe: true, braces: true})
	var params []Parameter
	for p.pos < len(p.text) && p.text[p.pos] == '|' {
		p.pos++
		paramStart := p.pos
		first := p.parseNodes(stops{pipe: true, braces: true, equals: true})
		if p.pos < len(p.text) && p.text[p.pos] == '=' {
			p.pos++
			if first == nil {
				first = []Node{}
			}
			value := p.parseNodes(stops{pipe: true, braces: true})
			params = append(params, Parameter{Name: first, Value: value, Start: paramStart, End: p.pos})
			continue
		}
		params = append(params, Parameter{Value: first, Start: paramStart, End: p.pos})
	}

	if !p.hasPrefix("}}") {
		p.warnings = append(p.warnings[:mark], Warning{Kind: WarnUnclosedTemplate, Start: start, End: start + 2})
		p.pos = start
		return Node{}, false
	}
	p.pos += 2
	return Node{Type: NodeTemplate, Start: start, End: p.pos, Name: name, Parameters: params}, true
}

func (p *parser) parseLink() (Node, bool) {
	start := p.pos
	mark := len(p.warnings)
	fail := func() (Node, bool) {
		p.warnings = append(p.warnings[:mark], Warning{Kind: WarnUnclosedLink, Start: start, End: start + 2})
		p.pos = start
		return Node{}, false
	}

	i := start + 2
	for i < len(p.text) {
		c := p.text[i]
		if c == '|' || c == '\n' || c == '[' || strings.HasPrefix(p.text[i:], "]]") {
			break
		}
		i++
	}
	if i >= len(p.text) {
		return fail()
	}

	target := strings.TrimSpace(p.text[start+2 : i])
	switch {
	case strings.HasPrefix(p.text[i:], "]]"):
		p.pos = i + 2
		return Node{Type: NodeLink, Start: start, End: p.pos, Target: target}, true
	case p.text[i] == '|':
		p.pos = i + 1
		text := p.parseNodes(stops{brackets: true})
		if !p.hasPrefix("]]") {
			return fail()
		}
		p.pos += 2
		if text == nil {
			text = []Node{}
		}
		return Node{Type: NodeLink, Start: start, End: p.pos, Target: target, Nodes: text}, true
	}
	return fail()
}

func (p *parser) parseExternalLink() (Node, bool) {
	start := p.pos
	rest := p.text[start+1:]
	if !strings.HasPrefix(rest, "http://") && !strings.HasPrefix(rest, "https://") && !strings.HasPrefix(rest, "//") {
		return Node{}, false
	}
	end := strings.IndexAny(rest, "]\n")
	if end < 0 || rest[end] != ']' {
		return Node{}, false
	}
	p.pos = start + 1 + end + 1
	return Node{Type: NodeExternalLink, Start: start, End: p.pos, Value: p.text[start:p.pos]}, true
}

func (p *parser) parseApostrophes() (Node, bool) {
	start := p.pos
	n := 0
	for start+n < len(p.text) && p.text[start+n] == '\'' {
		n++
	}

	var typ NodeType
	var width int
	switch {
	case n >= 5:
		typ, width = NodeBoldItalic, 5
	case n == 4 || n == 3:
		typ, width = NodeBold, 3
	default:
		typ, width = NodeItalic, 2
	}

	// surplus apostrophes stay in the preceding text
	markerStart := start + n - width
	p.pos = start + n
	return Node{Type: typ, Start: markerStart, End: p.pos}, true
}

func (p *parser) parseHeading() (Node, bool) {
	start := p.pos
	lineEnd := strings.IndexByte(p.text[start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(p.text)
	} else {
		lineEnd += start
	}
	line := strings.TrimRight(p.text[start:lineEnd], " \t")

	open := len(line) - len(strings.TrimLeft(line, "="))
	closing := len(line) - len(strings.TrimRight(line, "="))
	level := min(open, closing, 6)
	if level == 0 || len(line) <= 2*level {
		return Node{}, false
	}

	innerStart, innerEnd := start+level, start+len(line)-level
	p.pos = lineEnd
	return Node{
		Type:  NodeHeading,
		Start: start,
		End:   lineEnd,
		Level: level,
		Nodes: []Node{{Type: NodeText, Start: innerStart, End: innerEnd, Value: p.text[innerStart:innerEnd]}},
	}, true
}

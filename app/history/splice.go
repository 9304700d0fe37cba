package history

import (
	"fmt"
	"slices"
	"strings"
)

// Splice replaces the bytes of Span with Text. An empty Text deletes.
type Splice struct {
	Span
	Text string
}

// ApplySplices applies every splice to text. All spans refer to the
// original text; they are applied from the highest start offset down so
// that no edit shifts an offset still to be used.
func ApplySplices(text string, splices []Splice) (string, error) {
	sorted := slices.Clone(splices)
	slices.SortFunc(sorted, func(a, b Splice) int {
		if a.Start != b.Start {
			return b.Start - a.Start
		}
		return b.End - a.End
	})

	for i, s := range sorted {
		if s.Start < 0 || s.End < s.Start || s.End > len(text) {
			return "", fmt.Errorf("splice %d-%d out of range for %d bytes", s.Start, s.End, len(text))
		}
		if i > 0 && s.End > sorted[i-1].Start {
			return "", fmt.Errorf("splice %d-%d overlaps splice %d-%d", s.Start, s.End, sorted[i-1].Start, sorted[i-1].End)
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := len(text)
	pieces := make([]string, 0, 2*len(sorted)+1)
	for _, s := range sorted {
		pieces = append(pieces, text[s.End:pos], s.Text)
		pos = s.Start
	}
	pieces = append(pieces, text[:pos])
	for i := len(pieces) - 1; i >= 0; i-- {
		b.WriteString(pieces[i])
	}
	return b.String(), nil
}

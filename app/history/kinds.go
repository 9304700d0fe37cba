package history

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies which family of talk page banner a template belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindArticleHistory
	KindDYK
	KindITN
	KindOTD
	KindXfD
)

var kindNames = map[Kind]string{
	KindArticleHistory: "article-history",
	KindDYK:            "dyk",
	KindITN:            "itn",
	KindOTD:            "otd",
	KindXfD:            "xfd",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindUnknown, false
}

// IsSource reports whether templates of this kind are folded into the
// aggregate.
func (k Kind) IsSource() bool {
	return k != KindUnknown && k != KindArticleHistory
}

// AliasTable maps normalized template names to their kind.
type AliasTable map[string]Kind

func (t AliasTable) Add(name string, kind Kind) {
	t[NormalizeTitle(name)] = kind
}

func (t AliasTable) Lookup(name string) Kind {
	return t[NormalizeTitle(name)]
}

// NormalizeTitle canonicalizes a template name the way the wiki does: an
// optional Template: prefix is dropped, underscores become spaces, runs of
// whitespace collapse and only the first letter is case-folded.
func NormalizeTitle(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if len(name) >= len("template:") && strings.EqualFold(name[:len("template:")], "template:") {
		name = strings.TrimSpace(name[len("template:"):])
	}
	name = strings.Join(strings.Fields(name), " ")
	name = norm.NFC.String(name)
	return UppercaseFirst(name)
}

func UppercaseFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

package history

import (
	"context"
	"time"
)

// PageChecker reports which of two candidate pages exist.
type PageChecker interface {
	CheckExistence(ctx context.Context, primary, backup string) (primaryExists, backupExists bool, err error)
}

type TimestampParser func(string) (time.Time, error)

// CloseDateFinder looks up the date a deletion discussion was closed.
type CloseDateFinder interface {
	FindCloseDate(ctx context.Context, discussion string) (string, error)
}

// Adapter turns one source template into normalized entries. article is
// the title of the subject page, without the talk namespace.
type Adapter interface {
	Adapt(ctx context.Context, article string, tmpl *Template) ([]Entry, error)
}

// DefaultAdapters returns an adapter for every source kind. closeDates may
// be nil.
func DefaultAdapters(checker PageChecker, parse TimestampParser, closeDates CloseDateFinder) map[Kind]Adapter {
	return map[Kind]Adapter{
		KindDYK: NewDYKAdapter(checker),
		KindITN: NewITNAdapter(parse),
		KindOTD: NewOTDAdapter(),
		KindXfD: NewXfDAdapter(closeDates),
	}
}

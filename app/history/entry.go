package history

import (
	"fmt"
	"regexp"
	"strconv"
)

// MaxEntries bounds the number of numbered entries of one family on a page.
const MaxEntries = 500

// Param is one field of an entry; the full parameter name is the entry's
// slot prefix followed by Suffix.
type Param struct {
	Suffix string
	Value  string
}

// Entry is a normalized event taken from a source template.
type Entry interface {
	Prefix() string
	Params() []Param
}

// ActionEntry is an entry stored as an aggregate action rather than as
// prefixed parameters.
type ActionEntry interface {
	Entry
	Action(parse TimestampParser) (Action, error)
}

// slotPrefix names the parameter stem of the index'th entry: the bare
// prefix for the first, prefix+"2" for the second and so on.
func slotPrefix(prefix string, index int) string {
	if index == 0 {
		return prefix
	}
	return prefix + strconv.Itoa(index+1)
}

// CountExisting returns how many contiguous entries with the given prefix
// params already holds, judged by their date parameters.
func CountExisting(params *Params, prefix string) (int, error) {
	count := 0
	if params.Has(prefix + "date") {
		count = 1
		for params.Has(slotPrefix(prefix, count) + "date") {
			count++
			if count > MaxEntries {
				return 0, fmt.Errorf("%w: more than %d %q entries", ErrTooManyEntries, MaxEntries, prefix)
			}
		}
	}

	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `([0-9]+)date$`)
	for _, key := range params.Keys() {
		m := pattern.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 2 {
			continue
		}
		if n > count {
			return 0, fmt.Errorf("%w: %q present but only %d %q entries precede it", ErrIndexGap, key, count, prefix)
		}
	}
	return count, nil
}

// Merge appends entries after the existing ones of the same prefix. Existing
// slots are never touched.
func Merge(params *Params, entries []Entry) error {
	next := make(map[string]int)
	for _, entry := range entries {
		prefix := entry.Prefix()
		index, ok := next[prefix]
		if !ok {
			n, err := CountExisting(params, prefix)
			if err != nil {
				return err
			}
			index = n
		}
		if index >= MaxEntries {
			return fmt.Errorf("%w: more than %d %q entries", ErrTooManyEntries, MaxEntries, prefix)
		}

		stem := slotPrefix(prefix, index)
		for _, p := range entry.Params() {
			params.Set(stem+p.Suffix, p.Value)
		}
		next[prefix] = index + 1
	}
	return nil
}

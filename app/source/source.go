// Package source yields batches of talk page titles for the scheduler to
// process.
package source

import (
	"context"
	"errors"
	"strings"
)

// ErrExhausted is returned by Next once a source has nothing more to give.
var ErrExhausted = errors.New("page source exhausted")

const talkPrefix = "Talk:"

type PageSource interface {
	Next(ctx context.Context) ([]string, error)
}

// TalkTitle maps an article title to its talk page. Talk pages are
// returned unchanged.
func TalkTitle(title string) string {
	title = strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
	if strings.HasPrefix(title, talkPrefix) {
		return title
	}
	return talkPrefix + title
}

// ArticleTitle is the inverse of TalkTitle.
func ArticleTitle(talk string) string {
	return strings.TrimPrefix(talk, talkPrefix)
}

type ListSource struct {
	titles []string
	done   bool
}

func NewListSource(titles []string) *ListSource {
	return &ListSource{titles: titles}
}

func (s *ListSource) Next(ctx context.Context) ([]string, error) {
	if s.done {
		return nil, ErrExhausted
	}
	s.done = true

	batch := make([]string, 0, len(s.titles))
	for _, title := range s.titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		batch = append(batch, TalkTitle(title))
	}
	return batch, nil
}

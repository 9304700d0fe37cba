package history

import (
	"context"
	"errors"
	"testing"

	"github.com/enterprisey/article-history/app/wikidate"
)

func testAliases() AliasTable {
	t := AliasTable{}
	t.Add("Article history", KindArticleHistory)
	t.Add("ArticleHistory", KindArticleHistory)
	t.Add("DYK talk", KindDYK)
	t.Add("ITN talk", KindITN)
	t.Add("On this day", KindOTD)
	t.Add("Old XfD multi", KindXfD)
	return t
}

type fakeChecker struct {
	primary bool
	backup  bool
	err     error
	calls   [][2]string
}

func (c *fakeChecker) CheckExistence(ctx context.Context, primary, backup string) (bool, bool, error) {
	c.calls = append(c.calls, [2]string{primary, backup})
	return c.primary, c.backup, c.err
}

type fakeCloseDates struct {
	date string
}

func (f *fakeCloseDates) FindCloseDate(ctx context.Context, discussion string) (string, error) {
	if f.date == "" {
		return "", errors.New("no date found")
	}
	return f.date, nil
}

func extractOne(t *testing.T, text string) *Template {
	t.Helper()
	templates, err := NewExtractor(testAliases()).Run(text)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("Expected 1 template, got %d", len(templates))
	}
	return &templates[0]
}

func newTestRewriter(checker PageChecker) *Rewriter {
	return NewRewriter(NewExtractor(testAliases()), DefaultAdapters(checker, wikidate.Parse, nil), wikidate.Parse)
}

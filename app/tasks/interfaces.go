package tasks

import (
	"context"

	"github.com/enterprisey/article-history/app/mediawiki"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the HTTP API to queue pages for processing.
// Example usage:
//
//	scheduler := NewScheduler(pageSource, deps, workerCount, interval)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueuePage("Talk:Example")
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueuePage(title string) error
	Done() <-chan struct{}
}

// WikiClient is the part of the MediaWiki client a page task needs.
type WikiClient interface {
	PageText(ctx context.Context, title string) (*mediawiki.Revision, error)
	Edit(ctx context.Context, edit mediawiki.EditRequest) (int64, error)
}

// SourceMatcher cheaply rules out pages without source templates.
type SourceMatcher interface {
	MentionsSource(text string) bool
}

var _ WikiClient = (*mediawiki.Client)(nil)

package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/enterprisey/article-history/app/database"
	"github.com/enterprisey/article-history/app/history"
	"github.com/enterprisey/article-history/app/mediawiki"
	"github.com/enterprisey/article-history/app/source"
)

// ProcessPageDeps is everything a ProcessPageTask needs. One value is
// shared by all tasks of a run.
type ProcessPageDeps struct {
	Client   WikiClient
	Rewriter *history.Rewriter
	Matcher  SourceMatcher
	PageRepo database.PageRepository
	Budget   *EditBudget
	Summary  string
	DryRun   bool

	// MaxRetries caps attempts after the first; below zero means
	// DefaultMaxRetries.
	MaxRetries int
}

type ProcessPageTask struct {
	Task
	deps *ProcessPageDeps
}

func NewProcessPageTask(pageTitle string, deps *ProcessPageDeps) *ProcessPageTask {
	return &ProcessPageTask{
		Task: NewTask(TaskTypeProcessPage, pageTitle, deps.MaxRetries),
		deps: deps,
	}
}

func (t *ProcessPageTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	rev, err := t.deps.Client.PageText(ctx, t.PageTitle)
	if errors.Is(err, mediawiki.ErrPageMissing) {
		slog.Debug("Page does not exist, skipping", "page", t.PageTitle)
		return t.record(database.StatusSkipped, 0, 0, nil)
	}
	if err != nil {
		return t.fail(fmt.Errorf("failed to fetch page: %w", err))
	}

	lead, _ := history.SplitLead(rev.Text)
	if !t.deps.Matcher.MentionsSource(lead) {
		slog.Debug("No source templates in lead, skipping", "page", t.PageTitle)
		return t.record(database.StatusSkipped, 0, 0, nil)
	}

	result, err := t.deps.Rewriter.Run(ctx, source.ArticleTitle(t.PageTitle), rev.Text)
	if err != nil {
		var pageErr *history.PageError
		if errors.As(err, &pageErr) && !pageErr.Retryable() {
			slog.Warn("Page cannot be merged", "page", t.PageTitle, "kind", pageErr.Kind.String(), "error", err)
			return t.record(database.StatusFailed, 0, 0, err)
		}
		return t.fail(fmt.Errorf("failed to rewrite page: %w", err))
	}

	if !result.Changed {
		return t.record(database.StatusUnchanged, 0, 0, nil)
	}

	if t.deps.DryRun {
		slog.Info("Dry run, not editing", "page", t.PageTitle, "merged", len(result.Merged))
		slog.Debug("Proposed text", "page", t.PageTitle, "text", result.Text)
		return t.record(database.StatusDryRun, 0, len(result.Merged), nil)
	}

	if !t.deps.Budget.Take() {
		slog.Info("Edit limit reached, leaving page alone", "page", t.PageTitle)
		return nil
	}

	revID, err := t.deps.Client.Edit(ctx, mediawiki.EditRequest{
		Title:         t.PageTitle,
		Text:          result.Text,
		Summary:       t.deps.Summary,
		BaseTimestamp: rev.Timestamp,
	})
	if err != nil {
		t.deps.Budget.Refund()
		return t.fail(fmt.Errorf("failed to edit page: %w", err))
	}

	slog.Info("Page edited", "page", t.PageTitle, "revision", revID, "merged", len(result.Merged), "duration", t.GetDuration())
	return t.record(database.StatusEdited, revID, len(result.Merged), nil)
}

// fail records err once it will not be retried and hands it back to the
// scheduler either way.
func (t *ProcessPageTask) fail(err error) error {
	if !t.ShouldRetry(err) {
		if recErr := t.record(database.StatusFailed, 0, 0, err); recErr != nil {
			slog.Error("Database error", "operation", "record_page", "page", t.PageTitle, "error", recErr)
		}
	}
	return err
}

func (t *ProcessPageTask) record(status database.PageStatus, revID int64, merged int, cause error) error {
	page := database.Page{
		Title:       t.PageTitle,
		Status:      status,
		RevisionID:  revID,
		Merged:      merged,
		ProcessedAt: time.Now(),
	}
	if cause != nil {
		page.Error = cause.Error()
	}
	if err := t.deps.PageRepo.RecordPage(page); err != nil {
		return fmt.Errorf("failed to record page: %w", err)
	}
	return nil
}

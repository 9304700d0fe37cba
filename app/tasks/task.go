package tasks

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/enterprisey/article-history/app/history"
)

type TaskType string

const (
	TaskTypeProcessPage TaskType = "process_page"
)

const (
	DefaultMaxRetries = 3
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetPageTitle() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	ShouldRetry(err error) bool
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID         string
	Type       TaskType
	PageTitle  string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetPageTitle() string {
	return t.PageTitle
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

// ShouldRetry reports whether a failed attempt is worth repeating: retries
// must remain and the failure must be one a later attempt can fix. Broken
// markup, bad template data and unparseable dates never are, nor is a
// cancelled run.
func (t *Task) ShouldRetry(err error) bool {
	if !t.CanRetry() || errors.Is(err, context.Canceled) {
		return false
	}
	var pageErr *history.PageError
	if errors.As(err, &pageErr) {
		return pageErr.Retryable()
	}
	return true
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

// NewTask builds a task for one page. maxRetries below zero selects
// DefaultMaxRetries; zero disables retries.
func NewTask(taskType TaskType, pageTitle string, maxRetries int) Task {
	uniqueID := fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000))

	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}

	return Task{
		ID:         uniqueID,
		Type:       taskType,
		PageTitle:  pageTitle,
		RetryCount: 0,
		MaxRetries: maxRetries,
	}
}

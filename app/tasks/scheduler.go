package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/enterprisey/article-history/app/source"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	source      source.PageSource
	deps        *ProcessPageDeps
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface

	// pending is owned by the producer goroutine.
	pending   []string
	producing atomic.Bool
	inFlight  atomic.Int64
	done      chan struct{}
	doneOnce  sync.Once
}

func NewScheduler(pageSource source.PageSource, deps *ProcessPageDeps, workerCount int, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		source:      pageSource,
		deps:        deps,
		interval:    interval,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
		done:        make(chan struct{}),
	}
	s.producing.Store(pageSource != nil)
	return s
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if !s.producing.Load() {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.produce()

		for s.producing.Load() {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.produce()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Done is closed once the page source is exhausted and every queued page
// has been processed. It is never closed for sources that poll forever.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	s.inFlight.Inc()
	if err := s.enqueue(task); err != nil {
		s.inFlight.Dec()
		return err
	}
	return nil
}

func (s *Scheduler) EnqueuePage(title string) error {
	return s.EnqueueTask(NewProcessPageTask(source.TalkTitle(title), s.deps))
}

func (s *Scheduler) enqueue(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// produce moves titles from the source into the queue until the queue
// fills up, the source has nothing new, or the edit budget runs out.
func (s *Scheduler) produce() {
	for {
		if s.deps.Budget.Exhausted() {
			slog.Info("Edit limit reached, no more pages will be scheduled", "edits", s.deps.Budget.Used())
			s.stopProducing()
			return
		}

		if len(s.pending) == 0 {
			batch, err := s.source.Next(s.ctx)
			if errors.Is(err, source.ErrExhausted) {
				slog.Debug("Page source exhausted")
				s.stopProducing()
				return
			}
			if err != nil {
				slog.Warn("Failed to fetch pages from source", "error", err)
				return
			}
			if len(batch) == 0 {
				return
			}
			slog.Debug("Fetched pages from source", "count", len(batch))
			s.pending = batch
		}

		for len(s.pending) > 0 {
			if err := s.EnqueuePage(s.pending[0]); err != nil {
				slog.Debug("Task queue busy, deferring pages", "pending", len(s.pending), "error", err)
				return
			}
			s.pending = s.pending[1:]
		}
	}
}

func (s *Scheduler) stopProducing() {
	s.producing.Store(false)
	s.checkDone()
}

func (s *Scheduler) finish() {
	s.inFlight.Dec()
	s.checkDone()
}

func (s *Scheduler) checkDone() {
	if s.source != nil && !s.producing.Load() && s.inFlight.Load() == 0 {
		s.doneOnce.Do(func() { close(s.done) })
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	defer s.finish()

	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		slog.Debug("Task completed", "type", string(task.GetType()), "page", task.GetPageTitle(), "duration", task.GetDuration())
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "page", task.GetPageTitle(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.ShouldRetry(err) {
		slog.Error("Task failed, not retrying", "type", string(task.GetType()), "page", task.GetPageTitle(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "page", task.GetPageTitle(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	// The retry stays in flight while it waits.
	s.inFlight.Inc()
	go func() {
		select {
		case <-time.After(retryDelay):
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "page", task.GetPageTitle())
			s.finish()
			return
		}
		if retryErr := s.enqueue(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "page", task.GetPageTitle(), "retry_count", task.GetRetryCount(), "error", retryErr)
			s.finish()
		}
	}()
}

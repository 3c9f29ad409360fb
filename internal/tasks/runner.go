// Package tasks runs fire-and-forget work (label fetches, voucher
// emails, store writes) on a small worker pool so request handlers can
// respond without waiting on side effects.
package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type task struct {
	name string
	fn   func(context.Context)
}

// Runner executes submitted tasks on a fixed pool of workers. Submit
// never blocks: when the queue is full the task runs on its own
// goroutine instead.
type Runner struct {
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan task
	wg     sync.WaitGroup
}

func NewRunner(workers, queueSize int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	r := &Runner{
		logger: logger,
		queue:  make(chan task, queueSize),
	}
	for i := 0; i < workers; i++ {
		go r.worker()
	}
	return r
}

// Submit schedules fn to run in the background. Tasks receive a fresh
// context so they outlive the request that spawned them. Submissions
// after Shutdown are dropped with a warning.
func (r *Runner) Submit(name string, fn func(context.Context)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.logger.Warn("dropping task submitted after shutdown", "task", name)
		return
	}

	r.wg.Add(1)
	t := task{name: name, fn: fn}
	select {
	case r.queue <- t:
	default:
		go r.run(t)
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones to
// finish, up to the context deadline.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) worker() {
	for t := range r.queue {
		r.run(t)
	}
}

func (r *Runner) run(t task) {
	defer r.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("background task panicked", "task", t.name, "panic", rec)
		}
	}()

	start := time.Now()
	t.fn(context.Background())
	r.logger.Debug("background task finished", "task", t.name, "duration", time.Since(start))
}

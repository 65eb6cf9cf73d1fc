package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/trebuchet-org/registrar/internal/domain/config"
)

// Task is one scheduled invocation. It receives the context passed to
// Start, so stopping the scheduler lets an in-flight task finish while
// cancelling the parent context aborts it.
type Task func(ctx context.Context) error

// Stats counts what happened to each tick
type Stats struct {
	Ticks     int64 `json:"ticks"`
	Started   int64 `json:"started"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
	Coalesced int64 `json:"coalesced"`
	// Dropped counts queued runs discarded when the scheduler stopped
	Dropped int64 `json:"dropped"`
}

// Option configures a Periodic
type Option func(*Periodic)

// WithLimit stops scheduling after n accepted ticks. Zero means no limit.
func WithLimit(n int64) Option {
	return func(p *Periodic) {
		p.limit = n
	}
}

// WithResultHandler is called after every run with its sequence number
// (starting at 1) and error
func WithResultHandler(fn func(run int64, err error)) Option {
	return func(p *Periodic) {
		p.onResult = fn
	}
}

// Periodic runs a task on a fixed interval. Ticks that fire while a run is
// in flight are handled by the overlap policy:
//
//   - skip: the tick is dropped
//   - queue: every tick runs, one after another
//   - coalesce: at most one run waits behind the in-flight one
type Periodic struct {
	interval time.Duration
	policy   config.OverlapPolicy
	task     Task
	limit    int64
	onResult func(run int64, err error)

	busy    atomic.Bool
	pending atomic.Int64
	runs    atomic.Int64

	ticks     atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
	coalesced atomic.Int64
	dropped   atomic.Int64

	startOnce sync.Once
	mu        sync.Mutex
	stopped   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a scheduler. It does nothing until Start is called.
func New(interval time.Duration, policy config.OverlapPolicy, task Task, opts ...Option) (*Periodic, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}
	if task == nil {
		return nil, fmt.Errorf("task is required")
	}
	switch policy {
	case "":
		policy = config.OverlapSkip
	case config.OverlapSkip, config.OverlapQueue, config.OverlapCoalesce:
	default:
		return nil, fmt.Errorf("unknown overlap policy %q (want skip, queue or coalesce)", policy)
	}

	p := &Periodic{
		interval: interval,
		policy:   policy,
		task:     task,
		cancel:   func() {},
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Start begins ticking. The first tick fires one interval after Start.
// Calling Start more than once has no effect.
func (p *Periodic) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		loopCtx, cancel := context.WithCancel(ctx)
		p.mu.Lock()
		p.cancel = cancel
		if p.stopped {
			cancel()
		}
		p.mu.Unlock()

		wake := make(chan struct{}, 1)
		ticksDone := make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			defer close(ticksDone)
			p.tickLoop(loopCtx, wake)
		}()
		go func() {
			defer wg.Done()
			p.workLoop(ctx, loopCtx, wake, ticksDone)
		}()
		go func() {
			wg.Wait()
			p.dropped.Add(p.pending.Swap(0))
			cancel()
			close(p.done)
		}()
	})
}

// Stop halts the ticker. A run in flight completes; queued runs are dropped.
// Stopping before Start makes Start exit immediately.
func (p *Periodic) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	p.cancel()
}

// Done is closed once the scheduler has stopped and no run is in flight
func (p *Periodic) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the scheduler is done and returns the final counters
func (p *Periodic) Wait() Stats {
	<-p.done
	return p.Stats()
}

// Stats returns a snapshot of the counters
func (p *Periodic) Stats() Stats {
	return Stats{
		Ticks:     p.ticks.Load(),
		Started:   p.runs.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Skipped:   p.skipped.Load(),
		Coalesced: p.coalesced.Load(),
		Dropped:   p.dropped.Load(),
	}
}

func (p *Periodic) tickLoop(ctx context.Context, wake chan<- struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var accepted int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		p.ticks.Inc()
		if !p.accept() {
			continue
		}
		select {
		case wake <- struct{}{}:
		default:
		}

		accepted++
		if p.limit > 0 && accepted >= p.limit {
			return
		}
	}
}

// accept applies the overlap policy to one tick. Only the tick loop
// increments pending, so the checks below cannot race each other.
func (p *Periodic) accept() bool {
	switch p.policy {
	case config.OverlapQueue:
		p.pending.Inc()
		return true
	case config.OverlapCoalesce:
		if p.pending.Load() > 0 {
			p.coalesced.Inc()
			return false
		}
		p.pending.Inc()
		return true
	default:
		// busy is set before pending is decremented, so outstanding work
		// is always visible through one of the two
		if p.busy.Load() || p.pending.Load() > 0 {
			p.skipped.Inc()
			return false
		}
		p.pending.Inc()
		return true
	}
}

func (p *Periodic) workLoop(taskCtx, loopCtx context.Context, wake <-chan struct{}, ticksDone <-chan struct{}) {
	for {
		p.drain(taskCtx, loopCtx)
		select {
		case <-loopCtx.Done():
			return
		case <-wake:
		case <-ticksDone:
			// the limit was reached; run what was accepted and exit
			p.drain(taskCtx, loopCtx)
			return
		}
	}
}

func (p *Periodic) drain(taskCtx, loopCtx context.Context) {
	for p.pending.Load() > 0 && loopCtx.Err() == nil {
		p.busy.Store(true)
		p.pending.Dec()
		p.runOnce(taskCtx)
		p.busy.Store(false)
	}
}

func (p *Periodic) runOnce(ctx context.Context) {
	run := p.runs.Inc()
	err := p.task(ctx)
	if err != nil {
		p.failed.Inc()
	} else {
		p.succeeded.Inc()
	}
	if p.onResult != nil {
		p.onResult(run, err)
	}
}

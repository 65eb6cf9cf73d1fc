package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/trebuchet-org/registrar/internal/domain/config"
	"github.com/trebuchet-org/registrar/internal/scheduler"
)

// SendIntervalParams contains parameters for the periodic sender
type SendIntervalParams struct {
	Value    *big.Int
	Interval time.Duration
	Overlap  config.OverlapPolicy
	// Count stops after this many sends have been scheduled, zero runs
	// until the context is cancelled
	Count int64
	// OnResult receives every send outcome as it happens
	OnResult func(run int64, result *SendValueResult, err error)
}

// SendIntervalResult summarizes a periodic run
type SendIntervalResult struct {
	Stats scheduler.Stats
	// Interrupted counts sends aborted because the run was cancelled.
	// They are included in Stats.Failed.
	Interrupted int64
	LastErr     error
}

// Failures is the number of sends that failed on their own
func (r *SendIntervalResult) Failures() int64 {
	return r.Stats.Failed - r.Interrupted
}

// Err reports whether any send failed other than by cancellation
func (r *SendIntervalResult) Err() error {
	if n := r.Failures(); n > 0 {
		return fmt.Errorf("%d of %d sends failed: %w", n, r.Stats.Started, r.LastErr)
	}
	return nil
}

// SendInterval repeatedly invokes SendValue on a fixed interval
type SendInterval struct {
	provider HandleProvider
	send     *SendValue
	progress ProgressSink
	log      *slog.Logger
}

// NewSendInterval creates a new SendInterval use case
func NewSendInterval(provider HandleProvider, send *SendValue, progress ProgressSink, log *slog.Logger) *SendInterval {
	return &SendInterval{
		provider: provider,
		send:     send,
		progress: progress,
		log:      log.With("component", "SendInterval"),
	}
}

// Run blocks until the context is cancelled or Count sends have run. The
// contract handle and sender are resolved before the first tick, so no
// send is ever issued against a handle that is not ready.
func (uc *SendInterval) Run(ctx context.Context, params SendIntervalParams) (*SendIntervalResult, error) {
	handle, err := uc.provider.InitContract(ctx)
	if err != nil {
		return nil, err
	}
	from, err := uc.send.sender(ctx, SendValueParams{})
	if err != nil {
		return nil, err
	}

	var (
		mu          sync.Mutex
		lastErr     error
		interrupted int64
		// task and result handler run on the same worker goroutine
		current *SendValueResult
	)

	task := func(ctx context.Context) error {
		res, err := uc.send.send(ctx, handle, from, params.Value)
		current = res
		return err
	}

	onResult := func(run int64, err error) {
		res := current
		current = nil
		switch {
		case err != nil && ctx.Err() != nil:
			mu.Lock()
			interrupted++
			mu.Unlock()
			uc.log.Debug("send interrupted", "run", run, "error", err)
		case err != nil:
			mu.Lock()
			lastErr = err
			mu.Unlock()
			uc.log.Warn("send failed", "run", run, "error", err)
			uc.progress.Error(fmt.Sprintf("send #%d failed: %v", run, err))
		}
		if params.OnResult != nil {
			params.OnResult(run, res, err)
		}
	}

	periodic, err := scheduler.New(params.Interval, params.Overlap, task,
		scheduler.WithLimit(params.Count),
		scheduler.WithResultHandler(onResult),
	)
	if err != nil {
		return nil, err
	}

	uc.log.Info("periodic send started",
		"from", from.Hex(),
		"interval", params.Interval,
		"overlap", params.Overlap,
		"count", params.Count)

	periodic.Start(ctx)

	select {
	case <-ctx.Done():
		periodic.Stop()
	case <-periodic.Done():
	}
	stats := periodic.Wait()

	uc.log.Info("periodic send stopped",
		"started", stats.Started,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"skipped", stats.Skipped)

	mu.Lock()
	defer mu.Unlock()
	return &SendIntervalResult{Stats: stats, Interrupted: interrupted, LastErr: lastErr}, nil
}

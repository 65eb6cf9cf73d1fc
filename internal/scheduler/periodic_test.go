package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/trebuchet-org/registrar/internal/domain/config"
)

func TestNew(t *testing.T) {
	noop := func(context.Context) error { return nil }

	tests := []struct {
		name     string
		interval time.Duration
		policy   config.OverlapPolicy
		task     Task
		wantErr  string
	}{
		{name: "zero interval", interval: 0, policy: config.OverlapSkip, task: noop, wantErr: "interval must be positive"},
		{name: "nil task", interval: time.Second, policy: config.OverlapSkip, wantErr: "task is required"},
		{name: "unknown policy", interval: time.Second, policy: "drop", task: noop, wantErr: "unknown overlap policy"},
		{name: "empty policy defaults to skip", interval: time.Second, task: noop},
		{name: "queue", interval: time.Second, policy: config.OverlapQueue, task: noop},
		{name: "coalesce", interval: time.Second, policy: config.OverlapCoalesce, task: noop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.interval, tt.policy, tt.task)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.policy == "" {
				assert.Equal(t, config.OverlapSkip, p.policy)
			}
		})
	}
}

func TestPeriodic_Limit(t *testing.T) {
	var calls atomic.Int64
	var runs []int64
	var mu sync.Mutex

	p, err := New(5*time.Millisecond, config.OverlapQueue,
		func(context.Context) error {
			calls.Inc()
			return nil
		},
		WithLimit(3),
		WithResultHandler(func(run int64, err error) {
			mu.Lock()
			runs = append(runs, run)
			mu.Unlock()
		}),
	)
	require.NoError(t, err)

	p.Start(context.Background())
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after reaching its limit")
	}

	stats := p.Wait()
	assert.Equal(t, int64(3), calls.Load())
	assert.Equal(t, int64(3), stats.Started)
	assert.Equal(t, int64(3), stats.Succeeded)
	assert.Zero(t, stats.Failed)
	assert.Zero(t, stats.Dropped)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{1, 2, 3}, runs)
}

func TestPeriodic_FailuresDoNotStopTheLoop(t *testing.T) {
	var calls atomic.Int64
	boom := errors.New("boom")

	p, err := New(5*time.Millisecond, config.OverlapSkip,
		func(context.Context) error {
			if calls.Inc()%2 == 1 {
				return boom
			}
			return nil
		},
		WithLimit(4),
	)
	require.NoError(t, err)

	p.Start(context.Background())
	stats := p.Wait()

	assert.Equal(t, int64(4), stats.Started)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(2), stats.Succeeded)
}

// slowTask blocks each run until release is closed
func slowTask(calls *atomic.Int64, release <-chan struct{}) Task {
	return func(ctx context.Context) error {
		calls.Inc()
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}
}

func TestPeriodic_OverlapPolicies(t *testing.T) {
	const interval = 5 * time.Millisecond

	t.Run("skip drops ticks while busy", func(t *testing.T) {
		var calls atomic.Int64
		release := make(chan struct{})

		p, err := New(interval, config.OverlapSkip, slowTask(&calls, release))
		require.NoError(t, err)
		p.Start(context.Background())

		require.Eventually(t, func() bool { return p.Stats().Skipped >= 3 }, 2*time.Second, time.Millisecond)
		assert.Equal(t, int64(1), calls.Load())

		p.Stop()
		close(release)
		stats := p.Wait()

		assert.Equal(t, int64(1), stats.Started)
		assert.Zero(t, stats.Dropped)
		assert.Equal(t, stats.Ticks, stats.Started+stats.Skipped)
	})

	t.Run("coalesce keeps one pending run", func(t *testing.T) {
		var calls atomic.Int64
		release := make(chan struct{})

		p, err := New(interval, config.OverlapCoalesce, slowTask(&calls, release))
		require.NoError(t, err)
		p.Start(context.Background())

		require.Eventually(t, func() bool { return p.Stats().Coalesced >= 3 }, 2*time.Second, time.Millisecond)
		assert.Equal(t, int64(1), calls.Load())
		assert.Equal(t, int64(1), p.pending.Load())

		p.Stop()
		close(release)
		stats := p.Wait()

		// the waiting run is discarded on stop
		assert.Equal(t, int64(1), stats.Started)
		assert.Equal(t, int64(1), stats.Dropped)
	})

	t.Run("queue keeps every tick", func(t *testing.T) {
		var calls atomic.Int64
		release := make(chan struct{})

		p, err := New(interval, config.OverlapQueue, slowTask(&calls, release))
		require.NoError(t, err)
		p.Start(context.Background())

		require.Eventually(t, func() bool { return p.pending.Load() >= 3 }, 2*time.Second, time.Millisecond)
		assert.Equal(t, int64(1), calls.Load())

		p.Stop()
		close(release)
		stats := p.Wait()

		assert.Equal(t, int64(1), stats.Started)
		assert.Zero(t, stats.Skipped)
		assert.Zero(t, stats.Coalesced)
		assert.GreaterOrEqual(t, stats.Dropped, int64(3))
		assert.Equal(t, stats.Ticks, stats.Started+stats.Dropped)
	})

	t.Run("queue runs everything before a limit exit", func(t *testing.T) {
		var calls atomic.Int64
		release := make(chan struct{})

		p, err := New(interval, config.OverlapQueue, slowTask(&calls, release), WithLimit(3))
		require.NoError(t, err)
		p.Start(context.Background())

		require.Eventually(t, func() bool { return p.Stats().Ticks >= 3 }, 2*time.Second, time.Millisecond)
		close(release)
		stats := p.Wait()

		assert.Equal(t, int64(3), stats.Started)
		assert.Equal(t, int64(3), calls.Load())
	})
}

func TestPeriodic_StopLetsInFlightRunFinish(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	p, err := New(5*time.Millisecond, config.OverlapSkip, func(ctx context.Context) error {
		close(started)
		<-release
		finished.Store(true)
		return nil
	}, WithLimit(1))
	require.NoError(t, err)

	p.Start(context.Background())
	<-started
	p.Stop()

	select {
	case <-p.Done():
		t.Fatal("scheduler finished while a run was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	stats := p.Wait()
	assert.True(t, finished.Load())
	assert.Equal(t, int64(1), stats.Succeeded)
}

func TestPeriodic_ContextCancelAbortsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int64
	never := make(chan struct{})

	p, err := New(5*time.Millisecond, config.OverlapSkip, slowTask(&calls, never))
	require.NoError(t, err)
	p.Start(ctx)

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Failed)
}

func TestPeriodic_StopBeforeStart(t *testing.T) {
	p, err := New(time.Second, config.OverlapSkip, func(context.Context) error { return nil })
	require.NoError(t, err)
	p.Stop()
	p.Start(context.Background())

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	return New(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestScheduler_PanickingJobDoesNotStopSubsequentRuns(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t)

	var runs atomic.Int64
	err := s.Register("@every 10ms", "panicky", func(ctx context.Context) error {
		runs.Add(1)
		panic("boom")
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond, "job should keep firing after panicking")
}

func TestScheduler_FailingJobIsContained(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t)

	var failing, healthy atomic.Int64
	require.NoError(t, s.Register("@every 10ms", "failing", func(ctx context.Context) error {
		failing.Add(1)
		return assert.AnError
	}))
	require.NoError(t, s.Register("@every 10ms", "healthy", func(ctx context.Context) error {
		healthy.Add(1)
		return nil
	}))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		return failing.Load() >= 2 && healthy.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond, "an always-failing job must not affect others")
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t)
	err := s.Register("not a schedule", "broken", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

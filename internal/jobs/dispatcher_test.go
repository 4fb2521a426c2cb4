package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/logger"
)

type funcJob func(ctx context.Context, event *core.ReviewEvent) error

func (f funcJob) Run(ctx context.Context, event *core.ReviewEvent) error { return f(ctx, event) }

func reviewEvent(n int) *core.ReviewEvent {
	return &core.ReviewEvent{Request: core.ReviewRequest{Owner: "o", Repo: "r", PRNumber: n}, InstallationID: 1}
}

func TestDispatcher_RunsAllJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}
	job := funcJob(func(_ context.Context, e *core.ReviewEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen[e.Request.PRNumber] = true
		if e.Request.PRNumber == 2 {
			return errors.New("boom")
		}
		return nil
	})

	d := NewDispatcher(job, 3, 10, logger.Discard())
	for i := 1; i <= 5; i++ {
		require.NoError(t, d.Dispatch(context.Background(), reviewEvent(i)))
	}
	d.Stop()

	assert.Len(t, seen, 5)
}

func TestDispatcher_QueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	job := funcJob(func(context.Context, *core.ReviewEvent) error {
		started <- struct{}{}
		<-release
		return nil
	})

	d := NewDispatcher(job, 1, 1, logger.Discard())
	require.NoError(t, d.Dispatch(context.Background(), reviewEvent(1)))
	<-started // the worker holds event 1, the queue is empty

	require.NoError(t, d.Dispatch(context.Background(), reviewEvent(2)))
	assert.ErrorIs(t, d.Dispatch(context.Background(), reviewEvent(3)), ErrQueueFull)

	close(release)
	d.Stop()
	d.Stop()
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	var mu sync.Mutex
	var ran []int
	job := funcJob(func(_ context.Context, e *core.ReviewEvent) error {
		if e.Request.PRNumber == 1 {
			panic("job exploded")
		}
		mu.Lock()
		ran = append(ran, e.Request.PRNumber)
		mu.Unlock()
		return nil
	})

	d := NewDispatcher(job, 1, 0, logger.Discard())
	require.NoError(t, d.Dispatch(context.Background(), reviewEvent(1)))
	require.NoError(t, d.Dispatch(context.Background(), reviewEvent(2)))
	d.Stop()

	assert.Equal(t, []int{2}, ran)
}

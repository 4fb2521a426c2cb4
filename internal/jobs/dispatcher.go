package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sevigo/pr-stream/internal/core"
)

// ErrQueueFull is returned by Dispatch when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full, cannot accept new review job")

// DefaultQueueSize is used when the configured queue size is not positive.
const DefaultQueueSize = 100

// dispatcher implements core.JobDispatcher and manages a pool of worker goroutines
// processing review events.
type dispatcher struct {
	reviewJob  core.Job
	jobQueue   chan *core.ReviewEvent
	maxWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(reviewJob core.Job, maxWorkers, queueSize int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	d := &dispatcher{
		reviewJob:  reviewJob,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.ReviewEvent, queueSize),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes events from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Debug("starting review worker", "id", workerID)

	for event := range d.jobQueue {
		d.processEvent(workerID, event)
	}

	d.logger.Debug("shutting down review worker", "id", workerID)
}

func (d *dispatcher) processEvent(workerID int, event *core.ReviewEvent) {
	d.logger.Info("worker processing job",
		"worker_id", workerID,
		"repo", event.Request.FullName(),
		"pr", event.Request.PRNumber,
	)

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("review job panicked", "repo", event.Request.FullName(), "panic", r)
		}
	}()

	if err := d.reviewJob.Run(context.Background(), event); err != nil {
		d.logger.Error("code review job failed",
			"repo", event.Request.FullName(),
			"pr", event.Request.PRNumber,
			"error", err,
		)
	}
}

// Dispatch queues an event for processing by a worker.
func (d *dispatcher) Dispatch(_ context.Context, event *core.ReviewEvent) error {
	d.logger.Info("queuing code review job", "repo", event.Request.FullName(), "pr", event.Request.PRNumber)

	select {
	case d.jobQueue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.logger.Info("stopping dispatcher and waiting for jobs to finish")
		close(d.jobQueue)
		d.wg.Wait()
		d.logger.Info("all review jobs have finished")
	})
}

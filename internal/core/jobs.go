package core

import (
	"context"
)

// JobDispatcher defines the contract for a system that can accept and queue
// background jobs for asynchronous processing. This interface decouples the
// event source (e.g., a webhook handler) from the job execution mechanism.
type JobDispatcher interface {
	// Dispatch accepts a ReviewEvent and queues it for processing.
	// It returns an error if the job cannot be queued, for example, if the
	// queue is full, providing a mechanism for backpressure.
	Dispatch(ctx context.Context, event *ReviewEvent) error
	// Stop drains the queue and waits for in-flight jobs.
	Stop()
}

// Job represents a single, executable unit of work triggered by a ReviewEvent.
type Job interface {
	Run(ctx context.Context, event *ReviewEvent) error
}

package display

import (
	"sync"

	"github.com/sevigo/pr-stream/internal/core"
)

// Handle is an owned reference to a display surface. The owner closes it when
// the surface is torn down; pushes after Close, and deltas after a terminal
// push, are dropped.
type Handle struct {
	mu       sync.Mutex
	sink     Sink
	closed   bool
	terminal bool
}

// NewHandle takes ownership of s.
func NewHandle(s Sink) *Handle {
	if s == nil {
		s = Discard
	}
	return &Handle{sink: s}
}

// Close detaches the surface. It is safe to call more than once.
func (h *Handle) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Handle) Delta(text, accumulated string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.terminal {
		return
	}
	h.sink.Delta(text, accumulated)
}

func (h *Handle) Complete(result *core.ReviewResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.terminal {
		return
	}
	h.terminal = true
	h.sink.Complete(result)
}

func (h *Handle) Failed(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.terminal {
		return
	}
	h.terminal = true
	h.sink.Failed(err)
}

func (h *Handle) State(state core.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.sink.State(state)
}

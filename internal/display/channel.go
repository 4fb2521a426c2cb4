package display

import (
	"sync"
	"sync/atomic"

	"github.com/sevigo/pr-stream/internal/core"
)

// MessageType names a Message. The values double as SSE event names.
type MessageType string

const (
	MessageState    MessageType = "state"
	MessageDelta    MessageType = "delta"
	MessageComplete MessageType = "complete"
	MessageFailed   MessageType = "failed"
)

// Message is one push delivered through a Channel.
type Message struct {
	Type        MessageType
	State       core.State
	Text        string
	Accumulated string
	Result      *core.ReviewResult
	Err         error
}

// Terminal reports whether no message follows this one.
func (m Message) Terminal() bool {
	return m.Type == MessageComplete || m.Type == MessageFailed
}

// Channel is a Sink that delivers typed messages to another goroutine. Each
// push is delivered at most once and never blocks: non-terminal messages are
// dropped when the buffer is full. One slot is reserved so the single terminal
// message always fits; the channel is closed right after it.
type Channel struct {
	mu      sync.Mutex
	ch      chan Message
	closed  bool
	dropped atomic.Int64
}

// NewChannel creates a Channel buffering up to size messages.
func NewChannel(size int) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{ch: make(chan Message, size+1)}
}

// C returns the receive side.
func (c *Channel) C() <-chan Message { return c.ch }

// Dropped returns the number of messages that could not be delivered.
func (c *Channel) Dropped() int64 { return c.dropped.Load() }

// Close tears the surface down. Later pushes are dropped.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}

func (c *Channel) push(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.dropped.Add(1)
		return
	}

	if m.Terminal() {
		c.ch <- m
		c.closed = true
		close(c.ch)
		return
	}

	if len(c.ch) >= cap(c.ch)-1 {
		c.dropped.Add(1)
		return
	}
	c.ch <- m
}

func (c *Channel) Delta(text, accumulated string) {
	c.push(Message{Type: MessageDelta, Text: text, Accumulated: accumulated})
}

func (c *Channel) Complete(result *core.ReviewResult) {
	c.push(Message{Type: MessageComplete, Result: result})
}

func (c *Channel) Failed(err error) {
	c.push(Message{Type: MessageFailed, Err: err})
}

func (c *Channel) State(state core.State) {
	c.push(Message{Type: MessageState, State: state})
}

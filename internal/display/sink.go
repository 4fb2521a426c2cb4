// Package display defines the surfaces a review streams to. Pushes to a
// surface are fire-and-forget: a missing, closed or failing surface never
// affects the review itself.
package display

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/sevigo/pr-stream/internal/core"
)

// Sink receives progress of one review request.
type Sink interface {
	// Delta is called for each content increment with the text accumulated so far.
	Delta(text, accumulated string)
	// Complete is called once with the finished result.
	Complete(result *core.ReviewResult)
	// Failed is called once when the review fails.
	Failed(err error)
	// State is called on every non-terminal pipeline state transition.
	State(state core.State)
}

type discard struct{}

func (discard) Delta(string, string)        {}
func (discard) Complete(*core.ReviewResult) {}
func (discard) Failed(error)                {}
func (discard) State(core.State)            {}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type multi []Sink

// Multi fans every push out to all sinks in order.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multi) Delta(text, accumulated string) {
	for _, s := range m {
		s.Delta(text, accumulated)
	}
}

func (m multi) Complete(result *core.ReviewResult) {
	for _, s := range m {
		s.Complete(result)
	}
}

func (m multi) Failed(err error) {
	for _, s := range m {
		s.Failed(err)
	}
}

func (m multi) State(state core.State) {
	for _, s := range m {
		s.State(state)
	}
}

// guarded recovers from a panicking sink and disables it afterwards.
type guarded struct {
	sink   Sink
	logger *slog.Logger
	broken atomic.Bool
}

// Guard wraps s so that a panic inside it is logged once and every later push
// is dropped. A nil s behaves like Discard.
func Guard(s Sink, logger *slog.Logger) Sink {
	if s == nil {
		return Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &guarded{sink: s, logger: logger}
}

func (g *guarded) do(op string, fn func()) {
	if g.broken.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			g.broken.Store(true)
			g.logger.Warn("display sink failed, dropping further pushes", "op", op, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

func (g *guarded) Delta(text, accumulated string) {
	g.do("delta", func() { g.sink.Delta(text, accumulated) })
}

func (g *guarded) Complete(result *core.ReviewResult) {
	g.do("complete", func() { g.sink.Complete(result) })
}

func (g *guarded) Failed(err error) {
	g.do("failed", func() { g.sink.Failed(err) })
}

func (g *guarded) State(state core.State) {
	g.do("state", func() { g.sink.State(state) })
}

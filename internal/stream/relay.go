package stream

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/display"
)

var (
	// ErrUnterminated is returned when the event source closes without a
	// terminal event.
	ErrUnterminated = errors.New("stream ended without a terminal event")
	errStreamFailed = errors.New("stream failed")
)

// StreamState is the per-request accumulator. done flips exactly once.
type StreamState struct {
	accumulated strings.Builder
	done        bool
}

// Text returns the text accumulated so far.
func (s *StreamState) Text() string { return s.accumulated.String() }

// Done reports whether a terminal event has been consumed.
func (s *StreamState) Done() bool { return s.done }

// Relay consumes one stream strictly in order, forwarding each delta with the
// running text to a display sink and building the final ReviewResult.
type Relay struct {
	sink   display.Sink
	base   core.ReviewResult
	state  StreamState
	logger *slog.Logger
	now    func() time.Time
}

// NewRelay creates a relay for one request. base carries the files and
// summary the result is finalized with. The sink is guarded; its failures
// are never reported back.
func NewRelay(sink display.Sink, base core.ReviewResult, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		sink:   display.Guard(sink, logger),
		base:   base,
		logger: logger,
		now:    time.Now,
	}
}

// State exposes the accumulator.
func (r *Relay) State() *StreamState { return &r.state }

// Consume reads events until a terminal one. On Complete it returns the
// finished result after pushing it to the sink; the sink sees no delta after
// that. A Failed event, a closed source or ctx cancellation end with an error
// and no result.
func (r *Relay) Consume(ctx context.Context, events <-chan Event) (*core.ReviewResult, error) {
	if r.state.done {
		return nil, errors.New("relay already finished")
	}

	for {
		select {
		case <-ctx.Done():
			r.state.done = true
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				r.state.done = true
				return nil, ErrUnterminated
			}
			switch ev.Kind {
			case KindDelta:
				if ev.Text == "" {
					continue
				}
				r.state.accumulated.WriteString(ev.Text)
				r.sink.Delta(ev.Text, r.state.Text())
			case KindComplete:
				r.state.done = true
				result := r.finish(ev.Warnings)
				r.sink.Complete(result)
				return result, nil
			default:
				r.state.done = true
				err := ev.Err
				if err == nil {
					err = errStreamFailed
				}
				r.logger.Debug("stream failed", "accumulated_bytes", r.state.accumulated.Len(), "error", err)
				return nil, err
			}
		}
	}
}

func (r *Relay) finish(warnings int) *core.ReviewResult {
	result := r.base
	result.Files = append([]core.ChangedFile(nil), r.base.Files...)
	result.Content = r.state.Text()
	result.TokenUsageEstimate = EstimateTokens(result.Content)
	result.DecodeWarnings = warnings
	result.CompletedAt = r.now()
	return &result
}

// EstimateTokens approximates token usage as ceil(codepoints/4). Code points
// are counted, not bytes or UTF-16 units.
func EstimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

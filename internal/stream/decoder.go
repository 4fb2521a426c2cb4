package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	readChunkSize = 4096
	// MaxLineSize bounds the residual buffer. A line growing past it is
	// dropped and counted as a warning.
	MaxLineSize = 1 << 20
	previewLen  = 80
)

// LineDecoder parses one complete line of a provider's stream framing.
// ok is false for lines that carry no payload (blank, keep-alive, event
// names, end markers). A non-nil err marks a malformed payload line.
type LineDecoder interface {
	DecodeLine(line string) (text string, ok bool, err error)
}

// Decoder splits arriving chunks into lines and decodes them with a fixed
// LineDecoder. It keeps one residual buffer across chunks holding the
// unterminated tail; that tail is never parsed. A Decoder is not safe for
// concurrent use and decodes a single stream.
type Decoder struct {
	lines    LineDecoder
	logger   *slog.Logger
	residual strings.Builder
	overflow bool
	warnings int
	finished bool
}

// NewDecoder creates a decoder for one stream.
func NewDecoder(lines LineDecoder, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{lines: lines, logger: logger}
}

// Feed appends chunk to the residual buffer and returns the delta events of
// every line it completes, in order.
func (d *Decoder) Feed(chunk string) []Event {
	if d.finished {
		return nil
	}

	var events []Event
	for {
		i := strings.IndexByte(chunk, '\n')
		if i < 0 {
			break
		}
		part := chunk[:i]
		chunk = chunk[i+1:]

		if d.overflow {
			d.overflow = false
			d.residual.Reset()
			continue
		}

		line := part
		if d.residual.Len() > 0 {
			d.residual.WriteString(part)
			line = d.residual.String()
			d.residual.Reset()
		}
		if ev, ok := d.decode(line); ok {
			events = append(events, ev)
		}
	}

	if d.overflow {
		return events
	}
	d.residual.WriteString(chunk)
	if d.residual.Len() > MaxLineSize {
		d.overflow = true
		d.residual.Reset()
		d.warn("line exceeds maximum size", "")
	}
	return events
}

// Finish discards any unterminated residual and returns the single terminal
// Complete event.
func (d *Decoder) Finish() Event {
	if d.residual.Len() > 0 {
		d.logger.Debug("discarding unterminated final line", "bytes", d.residual.Len())
		d.residual.Reset()
	}
	d.finished = true
	ev := Complete()
	ev.Warnings = d.warnings
	return ev
}

// Warnings returns the number of lines skipped as malformed.
func (d *Decoder) Warnings() int { return d.warnings }

func (d *Decoder) decode(line string) (Event, bool) {
	line = strings.TrimSuffix(line, "\r")
	text, ok, err := d.lines.DecodeLine(line)
	if err != nil {
		d.warn("skipping malformed stream line", line, "error", err)
		return Event{}, false
	}
	if !ok || text == "" {
		return Event{}, false
	}
	return Delta(text), true
}

func (d *Decoder) warn(msg, line string, args ...any) {
	d.warnings++
	if len(line) > previewLen {
		line = line[:previewLen] + "..."
	}
	d.logger.Warn(msg, append([]any{"line", line, "warnings", d.warnings}, args...)...)
}

// Decode reads r chunk by chunk, sending events to out in arrival order. It
// always ends with exactly one terminal event: Complete at end of input, or
// Failed on a read error or context cancellation. The returned error is the
// failure, if any. Chunks are decoded sequentially on the calling goroutine.
func (d *Decoder) Decode(ctx context.Context, r io.Reader, out chan<- Event) error {
	buf := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return d.fail(ctx, out, err)
		}

		n, err := r.Read(buf)
		if n > 0 {
			for _, ev := range d.Feed(string(buf[:n])) {
				select {
				case out <- ev:
				case <-ctx.Done():
					return d.fail(ctx, out, ctx.Err())
				}
			}
		}

		switch {
		case errors.Is(err, io.EOF):
			if ctxErr := ctx.Err(); ctxErr != nil {
				return d.fail(ctx, out, ctxErr)
			}
			select {
			case out <- d.Finish():
				return nil
			case <-ctx.Done():
				return d.fail(ctx, out, ctx.Err())
			}
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			return d.fail(ctx, out, fmt.Errorf("stream read failed: %w", err))
		}
	}
}

// fail delivers the terminal Failed event. Once ctx is done the consumer may
// be gone, so delivery is only attempted without blocking.
func (d *Decoder) fail(ctx context.Context, out chan<- Event, err error) error {
	d.finished = true
	d.residual.Reset()
	ev := Failed(err)

	if ctx.Err() == nil {
		select {
		case out <- ev:
			return err
		case <-ctx.Done():
		}
	}
	select {
	case out <- ev:
	default:
		d.logger.Debug("failed event not delivered, consumer gone", "error", err)
	}
	return err
}

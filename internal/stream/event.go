// Package stream turns a provider's incremental response into an ordered
// sequence of normalized events and relays them to a display surface.
package stream

// Kind discriminates an Event.
type Kind int

const (
	// KindDelta carries one non-empty increment of generated text.
	KindDelta Kind = iota
	// KindComplete marks the end of a successful stream.
	KindComplete
	// KindFailed marks an aborted stream.
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindDelta:
		return "delta"
	case KindComplete:
		return "complete"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is one normalized stream event. Every stream ends with exactly one
// KindComplete or KindFailed event.
type Event struct {
	Kind Kind
	Text string
	Err  error
	// Warnings is the number of skipped lines, set on KindComplete.
	Warnings int
}

func Delta(text string) Event { return Event{Kind: KindDelta, Text: text} }
func Complete() Event         { return Event{Kind: KindComplete} }
func Failed(err error) Event  { return Event{Kind: KindFailed, Err: err} }

// Terminal reports whether e ends the stream.
func (e Event) Terminal() bool { return e.Kind != KindDelta }

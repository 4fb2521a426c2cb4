package core

// State is a stage of the review pipeline.
type State int

const (
	Idle State = iota
	FetchingContext
	Filtering
	Assembling
	Streaming
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FetchingContext:
		return "fetching_context"
	case Filtering:
		return "filtering"
	case Assembling:
		return "assembling"
	case Streaming:
		return "streaming"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can follow.
func (s State) Terminal() bool {
	return s == Completed || s == Failed
}

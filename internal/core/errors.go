package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFilesToReview is returned when filtering leaves nothing to review.
	ErrNoFilesToReview = errors.New("no files to review")
	// ErrEmptyPrompt is returned when the assembled prompt has no content.
	ErrEmptyPrompt = errors.New("assembled prompt is empty")
)

// ErrorKind classifies fatal pipeline failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfig
	KindContextFetch
	KindNoFiles
	KindAssembly
	KindProvider
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config_error"
	case KindContextFetch:
		return "context_fetch_error"
	case KindNoFiles:
		return "no_files_to_review"
	case KindAssembly:
		return "assembly_error"
	case KindProvider:
		return "provider_error"
	default:
		return "unknown_error"
	}
}

// PipelineError is a classified failure of one review request.
type PipelineError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *PipelineError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError wraps err with a kind and the operation that failed.
func NewPipelineError(kind ErrorKind, op string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Op: op, Err: err}
}

// ProviderError is a non-success response from a completion provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Status, e.Message)
}

// KindOf returns the classification of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	var prov *ProviderError
	if errors.As(err, &prov) {
		return KindProvider
	}
	if errors.Is(err, ErrNoFilesToReview) {
		return KindNoFiles
	}
	return KindUnknown
}

// Outcome is the structured result reported to callers: either a finished
// review or a classified failure, never both.
type Outcome struct {
	Success bool          `json:"success"`
	Result  *ReviewResult `json:"result,omitempty"`
	Error   string        `json:"error,omitempty"`
	Kind    string        `json:"kind,omitempty"`
}

// NewOutcome builds an Outcome from a pipeline return pair.
func NewOutcome(result *ReviewResult, err error) Outcome {
	if err != nil {
		return Outcome{Success: false, Error: err.Error(), Kind: KindOf(err).String()}
	}
	return Outcome{Success: true, Result: result}
}

// Package llm talks to completion providers. The provider set is closed; each
// variant knows how to build its request and decode its stream framing.
package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/stream"
)

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"
)

// CompletionRequest is one prompt to complete.
type CompletionRequest struct {
	Prompt string
	System string
}

// Provider is a completion provider variant. Implementations live in this
// package only.
type Provider interface {
	stream.LineDecoder

	ID() config.ProviderID
	// BuildRequest creates the HTTP request for req. stream selects the
	// incremental response mode.
	BuildRequest(ctx context.Context, req CompletionRequest, cfg config.ProviderConfig, stream bool) (*http.Request, error)
	// ParseResponse extracts the generated text from a non-streaming body.
	ParseResponse(body []byte) (string, error)

	sealed()
}

// ProviderFor returns the variant for id.
func ProviderFor(id config.ProviderID) (Provider, error) {
	switch id {
	case config.ProviderOpenAI:
		return OpenAI{}, nil
	case config.ProviderAnthropic:
		return Anthropic{}, nil
	default:
		return nil, config.ErrUnknownProvider
	}
}

// dataPayload strips the "data: " prefix. ok is false for lines without it
// and for the "[DONE]" end marker.
func dataPayload(line string) (string, bool) {
	payload, ok := strings.CutPrefix(line, dataPrefix)
	if !ok || strings.TrimSpace(payload) == doneMarker {
		return "", false
	}
	return payload, true
}

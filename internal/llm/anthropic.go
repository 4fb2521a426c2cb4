package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sevigo/pr-stream/internal/config"
)

const (
	anthropicEventPrefix = "event: "
	anthropicDeltaType   = "content_block_delta"
)

// Anthropic is the messages provider family: "event: " name lines followed by
// "data: " payloads, of which only content_block_delta events carry text.
type Anthropic struct{}

func (Anthropic) sealed() {}

func (Anthropic) ID() config.ProviderID { return config.ProviderAnthropic }

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Stream    bool               `json:"stream,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

func (Anthropic) BuildRequest(ctx context.Context, req CompletionRequest, cfg config.ProviderConfig, stream bool) (*http.Request, error) {
	body := anthropicRequest{
		Model:     cfg.Model,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens: cfg.MaxTokens,
		System:    req.System,
		Stream:    stream,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	version := cfg.Version
	if version == "" {
		version = config.DefaultAnthropicVersion
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", cfg.APIKey)
	httpReq.Header.Set("anthropic-version", version)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	return httpReq, nil
}

func (Anthropic) DecodeLine(line string) (string, bool, error) {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, anthropicEventPrefix) {
		return "", false, nil
	}
	payload, ok := dataPayload(line)
	if !ok {
		return "", false, nil
	}

	var ev anthropicStreamEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return "", false, fmt.Errorf("parsing event: %w", err)
	}
	if ev.Type != anthropicDeltaType {
		return "", false, nil
	}
	return ev.Delta.Text, true, nil
}

func (Anthropic) ParseResponse(body []byte) (string, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

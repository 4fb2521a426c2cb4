package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/sevigo/pr-stream/internal/config"
)

// OpenAI is the chat-completions provider family: "data: " framed chunks
// carrying choices[0].delta.content, terminated by "data: [DONE]".
type OpenAI struct{}

func (OpenAI) sealed() {}

func (OpenAI) ID() config.ProviderID { return config.ProviderOpenAI }

func (OpenAI) BuildRequest(ctx context.Context, req CompletionRequest, cfg config.ProviderConfig, stream bool) (*http.Request, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	body := openai.ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Stream:      stream,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	return httpReq, nil
}

func (OpenAI) DecodeLine(line string) (string, bool, error) {
	if strings.TrimSpace(line) == "" {
		return "", false, nil
	}
	payload, ok := dataPayload(line)
	if !ok {
		return "", false, nil
	}

	var chunk openai.ChatCompletionStreamResponse
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return "", false, fmt.Errorf("parsing chunk: %w", err)
	}
	if len(chunk.Choices) == 0 {
		return "", true, nil
	}
	return chunk.Choices[0].Delta.Content, true, nil
}

func (OpenAI) ParseResponse(body []byte) (string, error) {
	var resp openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

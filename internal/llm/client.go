package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/stream"
)

const (
	eventBuffer     = 64
	maxErrorBody    = 4096
	maxMessageChars = 512
)

// Completer runs completions against one configured provider.
//
//go:generate mockgen -destination=../../mocks/mock_completer.go -package=mocks . Completer
type Completer interface {
	Stream(ctx context.Context, req CompletionRequest) (<-chan stream.Event, error)
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Client is the HTTP completion client for one ProviderConfig.
type Client struct {
	cfg        config.ProviderConfig
	provider   Provider
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for cfg. A nil httpClient uses a client without
// a global timeout; request lifetime is bounded by the caller's context.
func NewClient(cfg config.ProviderConfig, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	provider, err := ProviderFor(cfg.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, cfg.ID)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		provider:   provider,
		httpClient: httpClient,
		logger:     logger.With("provider", string(cfg.ID), "model", cfg.Model),
	}, nil
}

// Provider returns the provider variant in use.
func (c *Client) Provider() Provider { return c.provider }

// Stream starts a streaming completion. A non-success status is returned as
// *core.ProviderError before any event is produced. Otherwise the returned
// channel yields deltas in order and exactly one terminal event, then closes.
func (c *Client) Stream(ctx context.Context, req CompletionRequest) (<-chan stream.Event, error) {
	resp, err := c.do(ctx, req, true)
	if err != nil {
		return nil, err
	}

	events := make(chan stream.Event, eventBuffer)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		dec := stream.NewDecoder(c.provider, c.logger)
		if err := dec.Decode(ctx, resp.Body, events); err != nil {
			c.logger.Warn("completion stream aborted", "error", err, "skipped_lines", dec.Warnings())
			return
		}
		c.logger.Debug("completion stream finished", "skipped_lines", dec.Warnings())
	}()
	return events, nil
}

// Complete runs a non-streaming completion and returns the generated text.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := c.do(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return c.provider.ParseResponse(body)
}

func (c *Client) do(ctx context.Context, req CompletionRequest, streaming bool) (*http.Response, error) {
	httpReq, err := c.provider.BuildRequest(ctx, req, c.cfg, streaming)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("sending completion request", "endpoint", c.cfg.Endpoint, "stream", streaming, "prompt_chars", len(req.Prompt))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		perr := &core.ProviderError{Status: resp.StatusCode, Message: errorMessage(body, resp.Status)}
		c.logger.Error("completion provider rejected request", "status", resp.StatusCode, "message", perr.Message)
		return nil, perr
	}
	return resp, nil
}

// errorMessage extracts error.message from a JSON error body, falling back to
// the raw body excerpt and then to the status text.
func errorMessage(body []byte, status string) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return status
	}
	if len(msg) > maxMessageChars {
		msg = msg[:maxMessageChars] + "..."
	}
	return msg
}

// IsProviderError reports whether err carries a provider status.
func IsProviderError(err error) bool {
	var perr *core.ProviderError
	return errors.As(err, &perr)
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/display"
)

// streamBuffer is the number of undelivered messages a slow client may lag behind.
const streamBuffer = 256

// ReviewRunner runs one review against a display sink.
type ReviewRunner interface {
	Run(ctx context.Context, req core.ReviewRequest, sink display.Sink) (*core.ReviewResult, error)
}

// StreamHandler serves a review as a server-sent event stream.
type StreamHandler struct {
	runner ReviewRunner
	logger *slog.Logger
}

// NewStreamHandler creates a StreamHandler.
func NewStreamHandler(runner ReviewRunner, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{runner: runner, logger: logger}
}

// Handle starts a review and writes its messages as they arrive. The client
// disconnecting cancels the review.
func (h *StreamHandler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Provider = r.URL.Query().Get("provider")

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("write deadline not supported", "error", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Error("streaming not supported by response writer", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch := display.NewChannel(streamBuffer)
	defer ch.Close()
	go func() {
		_, _ = h.runner.Run(ctx, req, ch)
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("review stream client disconnected", "repo", req.FullName(), "pr", req.PRNumber)
			return
		case msg, ok := <-ch.C():
			if !ok {
				return
			}
			if err := writeEvent(w, msg); err != nil {
				h.logger.Warn("failed to write review event", "error", err)
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
			if msg.Terminal() {
				if n := ch.Dropped(); n > 0 {
					h.logger.Warn("review stream dropped messages", "count", n)
				}
				return
			}
		}
	}
}

type stateData struct {
	State string `json:"state"`
}

// deltaData carries the running text so a client that missed deltas can
// resynchronise from the next one it receives.
type deltaData struct {
	Text        string `json:"text"`
	Accumulated string `json:"accumulated"`
}

// writeEvent encodes one message as an SSE frame named after its type.
func writeEvent(w io.Writer, msg display.Message) error {
	var data any
	switch msg.Type {
	case display.MessageState:
		data = stateData{State: msg.State.String()}
	case display.MessageDelta:
		data = deltaData{Text: msg.Text, Accumulated: msg.Accumulated}
	case display.MessageComplete:
		data = core.NewOutcome(withoutPatches(msg.Result), nil)
	case display.MessageFailed:
		data = core.NewOutcome(nil, msg.Err)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, payload)
	return err
}

// withoutPatches returns a copy of result whose files carry no diff text.
func withoutPatches(result *core.ReviewResult) *core.ReviewResult {
	if result == nil {
		return nil
	}
	out := *result
	out.Files = make([]core.ChangedFile, len(result.Files))
	for i, f := range result.Files {
		f.Patch = ""
		out.Files[i] = f
	}
	return &out
}

func requestFromPath(r *http.Request) (core.ReviewRequest, error) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		return core.ReviewRequest{}, fmt.Errorf("invalid pull request number %q", chi.URLParam(r, "number"))
	}
	return core.ReviewRequest{
		Owner:    chi.URLParam(r, "owner"),
		Repo:     chi.URLParam(r, "repo"),
		PRNumber: number,
	}, nil
}

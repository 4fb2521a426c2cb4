package display

import (
	"log/slog"

	"github.com/sevigo/pr-stream/internal/core"
)

// logSink reports progress through a logger. Deltas are not logged.
type logSink struct {
	logger *slog.Logger
}

// NewLog returns a Sink for headless runs such as webhook jobs.
func NewLog(logger *slog.Logger) Sink {
	return &logSink{logger: logger}
}

func (l *logSink) Delta(string, string) {}

func (l *logSink) Complete(result *core.ReviewResult) {
	l.logger.Info("review stream finished",
		"chars", len(result.Content),
		"token_estimate", result.TokenUsageEstimate,
	)
}

func (l *logSink) Failed(err error) {
	l.logger.Warn("review stream failed", "error", err)
}

func (l *logSink) State(state core.State) {
	l.logger.Debug("review progress", "state", state.String())
}

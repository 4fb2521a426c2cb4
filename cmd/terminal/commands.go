package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/display"
)

// reviewRunner starts a review pushing to sink.
type reviewRunner interface {
	Run(ctx context.Context, req core.ReviewRequest, sink display.Sink) (*core.ReviewResult, error)
}

// startReviewCmd runs the review in the background. Progress arrives through
// ch and is read by waitForMessage.
func startReviewCmd(ctx context.Context, runner reviewRunner, req core.ReviewRequest, ch *display.Channel) tea.Cmd {
	return func() tea.Msg {
		go func() {
			_, _ = runner.Run(ctx, req, ch)
		}()
		return waitForMessage(ch)()
	}
}

// waitForMessage blocks until the next review message.
func waitForMessage(ch *display.Channel) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch.C()
		if !ok {
			return streamClosedMsg{}
		}
		return streamMsg{msg: msg}
	}
}

func renderMarkdownCmd(content string, width int, style string) tea.Cmd {
	return func() tea.Msg {
		if width <= 0 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return renderedMsg{err: err}
		}
		out, err := r.Render(content)
		return renderedMsg{out: out, err: err}
	}
}

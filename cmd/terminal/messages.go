package main

import (
	"github.com/sevigo/pr-stream/internal/display"
)

// streamMsg carries one message of the running review.
type streamMsg struct {
	msg display.Message
}

// streamClosedMsg is sent when the review channel is closed without a
// terminal message, e.g. after the review was cancelled.
type streamClosedMsg struct{}

// renderedMsg carries the markdown rendering of the finished review.
type renderedMsg struct {
	out string
	err error
}

package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/sevigo/pr-stream/internal/core"
)

// Console writes review text to out as it streams and status lines to status.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	status  io.Writer
	verbose bool

	info  *color.Color
	ok    *color.Color
	fail  *color.Color
	faint *color.Color
}

// NewConsole creates a console surface. When verbose is false state
// transitions are not printed.
func NewConsole(out, status io.Writer, verbose bool) *Console {
	return &Console{
		out:     out,
		status:  status,
		verbose: verbose,
		info:    color.New(color.FgCyan),
		ok:      color.New(color.FgGreen, color.Bold),
		fail:    color.New(color.FgRed, color.Bold),
		faint:   color.New(color.Faint),
	}
}

func (c *Console) Delta(text, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, text)
}

func (c *Console) Complete(result *core.ReviewResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out)
	_, _ = c.ok.Fprint(c.status, "✔ review complete")
	_, _ = c.faint.Fprintf(c.status, "  %s files, +%s -%s, ~%s tokens",
		humanize.Comma(int64(result.Summary.TotalFiles)),
		humanize.Comma(int64(result.Summary.Additions)),
		humanize.Comma(int64(result.Summary.Deletions)),
		humanize.Comma(int64(result.TokenUsageEstimate)))
	if result.DecodeWarnings > 0 {
		_, _ = c.faint.Fprintf(c.status, ", %d skipped lines", result.DecodeWarnings)
	}
	_, _ = fmt.Fprintln(c.status)
}

func (c *Console) Failed(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.fail.Fprintf(c.status, "✘ review failed: %v\n", err)
}

func (c *Console) State(state core.State) {
	if !c.verbose || state.Terminal() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.info.Fprintf(c.status, "› %s\n", state)
}

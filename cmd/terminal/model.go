package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/display"
)

const channelBuffer = 512

type model struct {
	styles styles
	ctx    context.Context
	cancel context.CancelFunc
	runner reviewRunner
	req    core.ReviewRequest
	title  string
	ch     *display.Channel

	viewport viewport.Model
	spinner  spinner.Model
	width    int

	state    core.State
	content  strings.Builder
	result   *core.ReviewResult
	rendered bool
	err      error
}

func newModel(ctx context.Context, runner reviewRunner, req core.ReviewRequest, title string, theme ThemeName) *model {
	st := GetTheme(theme)
	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = st.spinner

	ctx, cancel := context.WithCancel(ctx)
	return &model{
		styles:   st,
		ctx:      ctx,
		cancel:   cancel,
		runner:   runner,
		req:      req,
		title:    title,
		ch:       display.NewChannel(channelBuffer),
		viewport: viewport.New(80, 20),
		spinner:  sp,
		state:    core.Idle,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, startReviewCmd(m.ctx, m.runner, m.req, m.ch))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			m.ch.Close()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width - 4
		m.viewport.Width = m.width
		m.viewport.Height = max(msg.Height-6, 3)
		m.refresh()
		if m.result != nil {
			return m, renderMarkdownCmd(m.result.Content, m.width, m.styles.markdown)
		}
		return m, nil

	case streamMsg:
		return m, m.handleStream(msg.msg)

	case streamClosedMsg:
		return m, nil

	case renderedMsg:
		if msg.err == nil {
			m.rendered = true
			m.viewport.SetContent(msg.out)
			m.viewport.GotoTop()
		}
		return m, nil

	case spinner.TickMsg:
		if m.finished() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) handleStream(msg display.Message) tea.Cmd {
	switch msg.Type {
	case display.MessageState:
		m.state = msg.State
	case display.MessageDelta:
		m.state = core.Streaming
		m.content.WriteString(msg.Text)
		m.refresh()
	case display.MessageComplete:
		m.state = core.Completed
		m.result = msg.Result
		return renderMarkdownCmd(msg.Result.Content, m.width, m.styles.markdown)
	case display.MessageFailed:
		m.state = core.Failed
		m.err = msg.Err
		return nil
	}
	return waitForMessage(m.ch)
}

func (m *model) refresh() {
	if m.rendered {
		return
	}
	text := m.content.String()
	if m.width > 0 {
		text = lipgloss.NewStyle().Width(m.width).Render(text)
	}
	m.viewport.SetContent(text)
	m.viewport.GotoBottom()
}

func (m *model) finished() bool {
	return m.state.Terminal()
}

func (m *model) View() string {
	header := m.styles.header.Render("📝 " + m.title)

	var status string
	switch {
	case m.err != nil:
		status = m.styles.error.Render("✘ " + m.err.Error())
	case m.result != nil:
		status = m.styles.success.Render("✔ review complete") + m.styles.inactive.Render(fmt.Sprintf(
			"  %s files, +%s -%s, ~%s tokens",
			humanize.Comma(int64(m.result.Summary.TotalFiles)),
			humanize.Comma(int64(m.result.Summary.Additions)),
			humanize.Comma(int64(m.result.Summary.Deletions)),
			humanize.Comma(int64(m.result.TokenUsageEstimate)),
		))
	default:
		status = m.spinner.View() + " " + m.styles.command.Render(m.state.String()+"...")
	}

	return m.styles.app.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.styles.viewport.Render(m.viewport.View()),
		m.styles.footer.Render(status+m.styles.inactive.Render("   q quit")),
	))
}

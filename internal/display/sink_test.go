package display

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-stream/internal/core"
)

type recorder struct {
	events []string
}

func (r *recorder) Delta(text, accumulated string)  { r.events = append(r.events, "delta:"+text+"|"+accumulated) }
func (r *recorder) Complete(res *core.ReviewResult) { r.events = append(r.events, "complete:"+res.Content) }
func (r *recorder) Failed(err error)                { r.events = append(r.events, "failed:"+err.Error()) }
func (r *recorder) State(s core.State)              { r.events = append(r.events, "state:"+s.String()) }

type panicky struct{ calls int }

func (p *panicky) Delta(string, string)        { p.calls++; panic("boom") }
func (p *panicky) Complete(*core.ReviewResult) { p.calls++ }
func (p *panicky) Failed(error)                { p.calls++ }
func (p *panicky) State(core.State)            { p.calls++ }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	s := Multi(a, nil, b)

	s.State(core.Streaming)
	s.Delta("x", "x")
	s.Complete(&core.ReviewResult{Content: "x"})

	want := []string{"state:streaming", "delta:x|x", "complete:x"}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)
}

func TestGuard_DisablesPanickingSink(t *testing.T) {
	p := &panicky{}
	g := Guard(p, quietLogger())

	assert.NotPanics(t, func() {
		g.Delta("a", "a")
		g.Delta("b", "ab")
		g.Complete(&core.ReviewResult{})
	})
	assert.Equal(t, 1, p.calls)

	assert.NotPanics(t, func() { Guard(nil, nil).Delta("a", "a") })
}

func TestHandle(t *testing.T) {
	r := &recorder{}
	h := NewHandle(r)

	h.State(core.Streaming)
	h.Delta("a", "a")
	h.Complete(&core.ReviewResult{Content: "a"})
	h.Delta("late", "alate")
	h.Failed(errors.New("late"))

	assert.Equal(t, []string{"state:streaming", "delta:a|a", "complete:a"}, r.events)

	h.Close()
	h.Close()
	assert.True(t, h.Closed())
	h.State(core.Completed)
	assert.Len(t, r.events, 3)
}

func TestHandle_PushAfterClose(t *testing.T) {
	r := &recorder{}
	h := NewHandle(r)
	h.Close()
	h.Delta("a", "a")
	h.Complete(&core.ReviewResult{})
	assert.Empty(t, r.events)
}

func TestChannel_OrderAndTerminal(t *testing.T) {
	c := NewChannel(8)
	c.State(core.Streaming)
	c.Delta("He", "He")
	c.Delta("llo", "Hello")
	c.Complete(&core.ReviewResult{Content: "Hello"})
	c.Delta("after", "Helloafter")

	var got []MessageType
	for m := range c.C() {
		got = append(got, m.Type)
		if m.Type == MessageComplete {
			assert.Equal(t, "Hello", m.Result.Content)
		}
	}
	assert.Equal(t, []MessageType{MessageState, MessageDelta, MessageDelta, MessageComplete}, got)
	assert.Equal(t, int64(1), c.Dropped())
}

func TestChannel_FullBufferKeepsTerminalSlot(t *testing.T) {
	c := NewChannel(2)
	for i := 0; i < 5; i++ {
		c.Delta("x", "x")
	}
	c.Failed(errors.New("provider down"))

	var msgs []Message
	for m := range c.C() {
		msgs = append(msgs, m)
	}
	require.Len(t, msgs, 3)
	assert.Equal(t, MessageFailed, msgs[2].Type)
	assert.EqualError(t, msgs[2].Err, "provider down")
	assert.Equal(t, int64(3), c.Dropped())
}

func TestChannel_CloseDropsPushes(t *testing.T) {
	c := NewChannel(4)
	c.Close()
	assert.NotPanics(t, func() {
		c.Delta("x", "x")
		c.Complete(&core.ReviewResult{})
		c.Close()
	})
	_, open := <-c.C()
	assert.False(t, open)
}

func TestConsole(t *testing.T) {
	color.NoColor = true
	var out, status bytes.Buffer
	c := NewConsole(&out, &status, true)

	c.State(core.FetchingContext)
	c.Delta("Hel", "Hel")
	c.Delta("lo", "Hello")
	c.State(core.Completed)
	c.Complete(&core.ReviewResult{
		Content:            "Hello",
		Summary:            core.Summary{TotalFiles: 2, Additions: 1500, Deletions: 3},
		TokenUsageEstimate: 2,
	})

	assert.Equal(t, "Hello\n", out.String())
	assert.Contains(t, status.String(), "› fetching_context")
	assert.NotContains(t, status.String(), "› completed")
	assert.Contains(t, status.String(), "2 files, +1,500 -3, ~2 tokens")

	status.Reset()
	c.Failed(errors.New("bad key"))
	assert.Contains(t, status.String(), "review failed: bad key")
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	s := NewLog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	s.State(core.Streaming)
	s.Delta("secret text", "secret text")
	s.Complete(&core.ReviewResult{Content: "abcd", TokenUsageEstimate: 1})
	s.Failed(errors.New("timeout"))

	out := buf.String()
	assert.Contains(t, out, "state=streaming")
	assert.NotContains(t, out, "secret text")
	assert.Contains(t, out, "chars=4")
	assert.Contains(t, out, "error=timeout")
}

package review

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/pr-stream/internal/core"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func at(minutes int) time.Time { return t0.Add(time.Duration(minutes) * time.Minute) }

func TestAggregateFeedback_Empty(t *testing.T) {
	assert.Equal(t, NoFeedback, AggregateFeedback(core.Feedback{}))

	onlyBlank := core.Feedback{
		Decisions:     []core.ReviewDecision{{Author: "a", State: core.StateCommented, Body: "  "}},
		Comments:      []core.ReviewComment{{Author: "b", Body: "", File: "x.go", Line: 1}},
		IssueComments: []core.IssueComment{{Author: "c", Body: "\n"}},
	}
	assert.Equal(t, NoFeedback, AggregateFeedback(onlyBlank))
}

func TestAggregateFeedback_Rendering(t *testing.T) {
	f := core.Feedback{
		Decisions: []core.ReviewDecision{
			{Author: "alice", State: core.StateApproved, Timestamp: at(1)},
			{Author: "bob", State: core.StateChangesRequested, Body: " fix tests ", Timestamp: at(2)},
			{Author: "zed", State: core.StatePending, Body: "draft", Timestamp: at(3)},
		},
		Comments: []core.ReviewComment{
			{Author: "carol", Body: "nit", File: "a.go", Line: 12, Timestamp: at(4)},
			{Author: "dan", Body: "whole file", File: "b.go", Timestamp: at(5)},
		},
		IssueComments: []core.IssueComment{
			{Author: "erin", Body: "thanks!", Timestamp: at(6)},
		},
	}

	want := strings.Join([]string{
		"alice approved the pull request",
		"bob requested changes: fix tests",
		"zed pending: draft",
		"carol at a.go line 12: nit",
		"dan at b.go: whole file",
		"erin: thanks!",
	}, "\n\n")
	assert.Equal(t, want, AggregateFeedback(f))
}

func TestAggregateFeedback_ChronologicalAndStable(t *testing.T) {
	f := core.Feedback{
		Decisions: []core.ReviewDecision{
			{Author: "d2", State: core.StateCommented, Body: "late", Timestamp: at(30)},
			{Author: "d1", State: core.StateCommented, Body: "tie", Timestamp: at(10)},
		},
		Comments: []core.ReviewComment{
			{Author: "c1", Body: "tie", File: "f", Line: 1, Timestamp: at(10)},
			{Author: "c0", Body: "first", File: "f", Line: 1, Timestamp: at(0)},
		},
		IssueComments: []core.IssueComment{
			{Author: "i1", Body: "tie", Timestamp: at(10)},
			{Author: "i2", Body: "mid", Timestamp: at(20)},
			{Author: "iz", Body: "no time"},
		},
	}

	out := AggregateFeedback(f)
	blocks := strings.Split(out, "\n\n")
	authors := make([]string, len(blocks))
	for i, b := range blocks {
		authors[i] = strings.Fields(b)[0]
		authors[i] = strings.TrimSuffix(authors[i], ":")
	}

	assert.Equal(t, []string{"iz", "c0", "d1", "c1", "i1", "i2", "d2"}, authors)
}

func TestAggregateFeedback_Idempotent(t *testing.T) {
	f := core.Feedback{
		Decisions:     []core.ReviewDecision{{Author: "a", State: core.StateApproved, Timestamp: at(2)}},
		Comments:      []core.ReviewComment{{Author: "b", Body: "x", File: "f.go", Line: 3, Timestamp: at(1)}},
		IssueComments: []core.IssueComment{{Author: "c", Body: "y", Timestamp: at(2)}},
	}
	first := AggregateFeedback(f)
	second := AggregateFeedback(f)
	assert.Equal(t, first, second)
}

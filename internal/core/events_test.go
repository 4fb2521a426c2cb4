package core

import (
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueCommentEvent(body string, onPR bool) *github.IssueCommentEvent {
	issue := &github.Issue{Number: github.Ptr(42)}
	if onPR {
		issue.PullRequestLinks = &github.PullRequestLinks{URL: github.Ptr("https://api.github.com/repos/o/r/pulls/42")}
	}
	return &github.IssueCommentEvent{
		Issue: issue,
		Comment: &github.IssueComment{
			Body: github.Ptr(body),
			User: &github.User{Login: github.Ptr("alice")},
		},
		Repo: &github.Repository{
			Name:     github.Ptr("r"),
			FullName: github.Ptr("o/r"),
			Owner:    &github.User{Login: github.Ptr("o")},
		},
		Installation: &github.Installation{ID: github.Ptr(int64(7))},
	}
}

func TestEventFromIssueComment(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		onPR         bool
		wantErr      bool
		wantProvider string
	}{
		{name: "plain review command", body: "/review", onPR: true},
		{name: "command is case insensitive", body: "  /REVIEW  ", onPR: true},
		{name: "provider override", body: "/review Anthropic", onPR: true, wantProvider: "anthropic"},
		{name: "not on a pull request", body: "/review", onPR: false, wantErr: true},
		{name: "other comment", body: "looks good", onPR: true, wantErr: true},
		{name: "too many arguments", body: "/review openai now", onPR: true, wantErr: true},
		{name: "empty body", body: "", onPR: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := EventFromIssueComment(issueCommentEvent(tt.body, tt.onPR))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "o", ev.Request.Owner)
			assert.Equal(t, "r", ev.Request.Repo)
			assert.Equal(t, 42, ev.Request.PRNumber)
			assert.Equal(t, tt.wantProvider, ev.Request.Provider)
			assert.Equal(t, "alice", ev.Commenter)
			assert.Equal(t, int64(7), ev.InstallationID)
		})
	}
}

func TestKindOfAndOutcome(t *testing.T) {
	err := NewPipelineError(KindNoFiles, "filtering", ErrNoFilesToReview)
	assert.Equal(t, KindNoFiles, KindOf(err))
	assert.ErrorIs(t, err, ErrNoFilesToReview)

	provErr := NewPipelineError(KindProvider, "streaming", &ProviderError{Status: 401, Message: "bad key"})
	var pe *ProviderError
	require.ErrorAs(t, provErr, &pe)
	assert.Equal(t, 401, pe.Status)

	out := NewOutcome(nil, provErr)
	assert.False(t, out.Success)
	assert.Nil(t, out.Result)
	assert.Equal(t, "provider_error", out.Kind)

	res := &ReviewResult{Content: "ok"}
	out = NewOutcome(res, nil)
	assert.True(t, out.Success)
	assert.Same(t, res, out.Result)
	assert.Empty(t, out.Error)
}

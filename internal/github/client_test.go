package github

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-stream/internal/core"
)

func newTestClient(t *testing.T, mux *http.ServeMux) Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base

	return NewGitHubClient(gh, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/5", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"number":        5,
			"title":         "Add feature",
			"body":          "desc",
			"user":          map[string]any{"login": "alice"},
			"base":          map[string]any{"ref": "main"},
			"head":          map[string]any{"ref": "feature", "sha": "abc123"},
			"commits":       2,
			"additions":     10,
			"deletions":     3,
			"changed_files": 1,
		})
	})
	client := newTestClient(t, mux)

	pr, err := client.GetPullRequest(t.Context(), "o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, &core.PullRequest{
		Number: 5, Title: "Add feature", Description: "desc", Author: "alice",
		BaseBranch: "main", HeadBranch: "feature", HeadSHA: "abc123",
		Commits: 2, Additions: 10, Deletions: 3, ChangedFiles: 1,
	}, pr)
}

func TestGetChangedFiles_Paginates(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/repos/o/r/pulls/5/files", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, []map[string]any{
				{"filename": "b.md", "status": "added", "additions": 1},
			})
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/o/r/pulls/5/files?page=2>; rel="next"`, srvURL))
		writeJSON(t, w, []map[string]any{
			{"filename": "a.go", "status": "modified", "additions": 10, "deletions": 2, "patch": "+x"},
			{"filename": "old.go", "status": "removed", "deletions": 4},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base
	client := NewGitHubClient(gh, slog.New(slog.NewTextHandler(io.Discard, nil)))

	files, err := client.GetChangedFiles(t.Context(), "o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, []core.ChangedFile{
		{Name: "a.go", Status: core.FileModified, Additions: 10, Deletions: 2, Patch: "+x"},
		{Name: "old.go", Status: core.FileRemoved, Deletions: 4},
		{Name: "b.md", Status: core.FileAdded, Additions: 1},
	}, files)
}

func TestGetFeedback(t *testing.T) {
	ts := "2024-03-01T10:00:00Z"
	want, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/5/reviews", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"user": map[string]any{"login": "bob"}, "state": "APPROVED", "body": "", "submitted_at": ts},
		})
	})
	mux.HandleFunc("/repos/o/r/pulls/5/comments", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"user": map[string]any{"login": "carol"}, "body": "nit", "path": "a.go", "line": 7, "created_at": ts},
			{"user": map[string]any{"login": "dave"}, "body": "outdated", "path": "a.go", "position": 3, "created_at": ts},
		})
	})
	mux.HandleFunc("/repos/o/r/issues/5/comments", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"user": map[string]any{"login": "erin"}, "body": "thanks", "created_at": ts},
		})
	})
	client := newTestClient(t, mux)

	decisions, err := client.GetReviewDecisions(t.Context(), "o", "r", 5)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, core.StateApproved, decisions[0].State)
	assert.True(t, want.Equal(decisions[0].Timestamp))

	comments, err := client.GetReviewComments(t.Context(), "o", "r", 5)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, 7, comments[0].Line)
	assert.Equal(t, 3, comments[1].Line, "line falls back to position")

	issues, err := client.GetIssueComments(t.Context(), "o", "r", 5)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "erin", issues[0].Author)
}

func TestSubmitReviewComment(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/5/reviews", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, map[string]any{"id": 1})
	})
	client := newTestClient(t, mux)

	require.NoError(t, client.SubmitReviewComment(t.Context(), "o", "r", 5, "review text"))
	assert.Equal(t, "COMMENT", got["event"])
	assert.Equal(t, "review text", got["body"])
}

func TestGetPullRequest_Error(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/5", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	client := newTestClient(t, mux)

	_, err := client.GetPullRequest(t.Context(), "o", "r", 5)
	var ghErr *github.ErrorResponse
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, http.StatusNotFound, ghErr.Response.StatusCode)
}

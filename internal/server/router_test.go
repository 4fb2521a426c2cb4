package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/display"
	"github.com/sevigo/pr-stream/internal/jobs"
	"github.com/sevigo/pr-stream/internal/logger"
	"github.com/sevigo/pr-stream/internal/storage"
)

const (
	webhookSecret = "s3cret"
	apiToken      = "api-t0ken"
)

type fakeDispatcher struct {
	mu     sync.Mutex
	events []*core.ReviewEvent
	err    error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, e *core.ReviewEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.events = append(d.events, e)
	return nil
}

func (d *fakeDispatcher) Stop() {}

func (d *fakeDispatcher) queued() []*core.ReviewEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*core.ReviewEvent(nil), d.events...)
}

type runnerFunc func(ctx context.Context, req core.ReviewRequest, sink display.Sink) (*core.ReviewResult, error)

func (f runnerFunc) Run(ctx context.Context, req core.ReviewRequest, sink display.Sink) (*core.ReviewResult, error) {
	return f(ctx, req, sink)
}

type fakeStore struct {
	review *core.Review
}

func (s *fakeStore) SaveReview(context.Context, *core.Review) error { return nil }

func (s *fakeStore) GetLatestReviewForPR(_ context.Context, repo string, pr int) (*core.Review, error) {
	if s.review == nil || s.review.RepoFullName != repo || s.review.PRNumber != pr {
		return nil, storage.ErrNotFound
	}
	return s.review, nil
}

func newTestServer(t *testing.T, d core.JobDispatcher, runner runnerFunc, store storage.Store) *httptest.Server {
	t.Helper()
	return newTestServerWithToken(t, d, runner, store, apiToken)
}

func newTestServerWithToken(t *testing.T, d core.JobDispatcher, runner runnerFunc, store storage.Store, token string) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		GitHub: config.GitHubConfig{WebhookSecret: webhookSecret},
		Server: config.ServerConfig{APIToken: token},
	}
	srv := httptest.NewServer(NewRouter(cfg, d, runner, store, logger.Discard()))
	t.Cleanup(srv.Close)
	return srv
}

func apiGet(t *testing.T, ctx context.Context, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func signedRequest(t *testing.T, url, event string, body []byte, secret string) *http.Request {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", event)
	req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func issueCommentPayload(body string) []byte {
	payload := map[string]any{
		"action": "created",
		"issue": map[string]any{
			"number":       5,
			"pull_request": map[string]any{"url": "https://api.github.com/repos/o/r/pulls/5"},
		},
		"comment":      map[string]any{"body": body, "user": map[string]any{"login": "alice"}},
		"repository":   map[string]any{"name": "r", "full_name": "o/r", "owner": map[string]any{"login": "o"}},
		"installation": map[string]any{"id": 77},
	}
	data, _ := json.Marshal(payload)
	return data
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeDispatcher{}, nil, nil)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhook(t *testing.T) {
	tests := []struct {
		name        string
		comment     string
		secret      string
		dispatchErr error
		wantStatus  int
		wantQueued  bool
	}{
		{name: "review command queued", comment: "/review anthropic", secret: webhookSecret, wantStatus: http.StatusAccepted, wantQueued: true},
		{name: "other comment ignored", comment: "nice", secret: webhookSecret, wantStatus: http.StatusOK},
		{name: "bad signature", comment: "/review", secret: "wrong", wantStatus: http.StatusUnauthorized},
		{name: "queue full", comment: "/review", secret: webhookSecret, dispatchErr: jobs.ErrQueueFull, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{err: tt.dispatchErr}
			srv := newTestServer(t, d, nil, nil)

			req := signedRequest(t, srv.URL+"/api/v1/webhook/github", "issue_comment", issueCommentPayload(tt.comment), tt.secret)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			events := d.queued()
			if tt.wantQueued {
				require.Len(t, events, 1)
				assert.Equal(t, core.ReviewRequest{Owner: "o", Repo: "r", PRNumber: 5, Provider: "anthropic"}, events[0].Request)
				assert.Equal(t, int64(77), events[0].InstallationID)
			} else {
				assert.Empty(t, events)
			}
		})
	}
}

func readStream(t *testing.T, url string) string {
	t.Helper()
	resp := apiGet(t, context.Background(), url, apiToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestStream_Success(t *testing.T) {
	reqs := make(chan core.ReviewRequest, 1)
	runner := runnerFunc(func(_ context.Context, req core.ReviewRequest, sink display.Sink) (*core.ReviewResult, error) {
		reqs <- req
		sink.State(core.Streaming)
		sink.Delta("Hel", "Hel")
		sink.Delta("lo", "Hello")
		res := &core.ReviewResult{
			Content: "Hello",
			Files:   []core.ChangedFile{{Name: "a.go", Status: core.FileModified, Patch: "+secret line"}},
			Summary: core.Summary{Additions: 10},
		}
		sink.Complete(res)
		return res, nil
	})
	srv := newTestServer(t, &fakeDispatcher{}, runner, nil)

	body := readStream(t, srv.URL+"/api/v1/reviews/o/r/9/stream?provider=openai")

	assert.Equal(t, core.ReviewRequest{Owner: "o", Repo: "r", PRNumber: 9, Provider: "openai"}, <-reqs)
	assert.Contains(t, body, "event: state\ndata: {\"state\":\"streaming\"}\n\n")
	assert.Contains(t, body, "event: delta\ndata: {\"text\":\"Hel\",\"accumulated\":\"Hel\"}\n\n")
	assert.Contains(t, body, "event: delta\ndata: {\"text\":\"lo\",\"accumulated\":\"Hello\"}\n\n")
	assert.Contains(t, body, "event: complete\ndata: {\"success\":true")
	assert.Contains(t, body, `"name":"a.go"`)
	assert.NotContains(t, body, "secret line")
	assert.Less(t, strings.Index(body, "\"Hel\""), strings.Index(body, "\"lo\""))
	assert.Less(t, strings.Index(body, "event: delta"), strings.Index(body, "event: complete"))
}

func TestStream_Failure(t *testing.T) {
	runner := runnerFunc(func(_ context.Context, _ core.ReviewRequest, sink display.Sink) (*core.ReviewResult, error) {
		err := core.NewPipelineError(core.KindNoFiles, "filtering", core.ErrNoFilesToReview)
		sink.Failed(err)
		return nil, err
	})
	srv := newTestServer(t, &fakeDispatcher{}, runner, nil)

	body := readStream(t, srv.URL+"/api/v1/reviews/o/r/9/stream")
	assert.Contains(t, body, "event: failed\n")
	assert.Contains(t, body, `"success":false`)
	assert.Contains(t, body, `"kind":"no_files_to_review"`)
	assert.NotContains(t, body, "event: complete")
}

func TestStream_ClientDisconnectCancelsRun(t *testing.T) {
	cancelled := make(chan struct{})
	runner := runnerFunc(func(ctx context.Context, _ core.ReviewRequest, sink display.Sink) (*core.ReviewResult, error) {
		sink.State(core.Streaming)
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	})
	srv := newTestServer(t, &fakeDispatcher{}, runner, nil)

	ctx, cancel := context.WithCancel(context.Background())
	resp := apiGet(t, ctx, srv.URL+"/api/v1/reviews/o/r/9/stream", apiToken)

	buf := make([]byte, 16)
	_, err := resp.Body.Read(buf)
	require.NoError(t, err)
	cancel()
	_ = resp.Body.Close()

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("review was not cancelled after client disconnect")
	}
}

func TestStream_BadNumber(t *testing.T) {
	srv := newTestServer(t, &fakeDispatcher{}, nil, nil)
	resp := apiGet(t, context.Background(), srv.URL+"/api/v1/reviews/o/r/abc/stream", apiToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLatest(t *testing.T) {
	store := &fakeStore{review: &core.Review{
		ID: 4, RepoFullName: "o/r", PRNumber: 2, Provider: "openai", Content: "stored",
		Summary: core.Summary{TotalFiles: 1}, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	srv := newTestServer(t, &fakeDispatcher{}, nil, store)

	resp := apiGet(t, context.Background(), srv.URL+"/api/v1/reviews/o/r/2/latest", apiToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "stored", out["content"])
	assert.Equal(t, "o/r", out["repo"])
	assert.Equal(t, "2024-01-02T03:04:05Z", out["created_at"])

	missing := apiGet(t, context.Background(), srv.URL+"/api/v1/reviews/o/r/3/latest", apiToken)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestLatest_HistoryDisabled(t *testing.T) {
	srv := newTestServer(t, &fakeDispatcher{}, nil, nil)
	resp := apiGet(t, context.Background(), srv.URL+"/api/v1/reviews/o/r/2/latest", apiToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReviewAPI_RequiresToken(t *testing.T) {
	var ran atomic.Bool
	runner := runnerFunc(func(_ context.Context, _ core.ReviewRequest, sink display.Sink) (*core.ReviewResult, error) {
		ran.Store(true)
		res := &core.ReviewResult{Content: "private"}
		sink.Complete(res)
		return res, nil
	})
	store := &fakeStore{review: &core.Review{RepoFullName: "o/r", PRNumber: 1, Content: "stored"}}
	srv := newTestServer(t, &fakeDispatcher{}, runner, store)

	tests := []struct {
		name  string
		path  string
		token string
	}{
		{name: "stream without token", path: "/api/v1/reviews/o/r/1/stream?provider=anthropic"},
		{name: "stream with wrong token", path: "/api/v1/reviews/o/r/1/stream", token: "guess"},
		{name: "latest without token", path: "/api/v1/reviews/o/r/1/latest"},
		{name: "latest with wrong token", path: "/api/v1/reviews/o/r/1/latest", token: apiToken + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := apiGet(t, context.Background(), srv.URL+tt.path, tt.token)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.NotContains(t, string(body), "private")
			assert.NotContains(t, string(body), "stored")
		})
	}
	assert.False(t, ran.Load(), "no review runs for an unauthenticated request")
}

func TestReviewAPI_DisabledWithoutToken(t *testing.T) {
	var ran atomic.Bool
	runner := runnerFunc(func(context.Context, core.ReviewRequest, display.Sink) (*core.ReviewResult, error) {
		ran.Store(true)
		return nil, nil
	})
	srv := newTestServerWithToken(t, &fakeDispatcher{}, runner, &fakeStore{}, "")

	for _, path := range []string{"/api/v1/reviews/o/r/1/stream", "/api/v1/reviews/o/r/1/latest"} {
		resp := apiGet(t, context.Background(), srv.URL+path, "")
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
	assert.False(t, ran.Load())

	req := signedRequest(t, srv.URL+"/api/v1/webhook/github", "issue_comment", issueCommentPayload("/review"), webhookSecret)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

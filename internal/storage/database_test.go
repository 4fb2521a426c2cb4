package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"

	"github.com/sevigo/pr-stream/internal/core"
)

func TestReviewRowRoundTrip(t *testing.T) {
	in := &core.Review{
		ID: 3, RepoFullName: "o/r", PRNumber: 9, HeadSHA: "abc", Provider: "openai", Model: "gpt-4",
		Content: "text", TokenEstimate: 12, Summary: core.Summary{TotalFiles: 2, Additions: 5, Deletions: 1},
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, in, toRow(in).toReview())
}

func TestReviewFromResult(t *testing.T) {
	done := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := ReviewFromResult(
		core.ReviewRequest{Owner: "o", Repo: "r", PRNumber: 4},
		&core.ReviewResult{Content: "c", HeadSHA: "sha", Provider: "anthropic", Model: "m", TokenUsageEstimate: 7,
			Summary: core.Summary{TotalFiles: 1}, CompletedAt: done},
	)
	assert.Equal(t, "o/r", r.RepoFullName)
	assert.Equal(t, 4, r.PRNumber)
	assert.Equal(t, "sha", r.HeadSHA)
	assert.Equal(t, 7, r.TokenEstimate)
	assert.Equal(t, done, r.CreatedAt)
}

// TestPostgresStore runs against a live database when PRS_TEST_DATABASE_DSN
// points at one with the migrations applied.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PRS_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("PRS_TEST_DATABASE_DSN not set")
	}
	conn, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	store := NewStore(conn)
	repo := "it/" + time.Now().Format("150405.000000")

	_, err = store.GetLatestReviewForPR(ctx, repo, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	first := &core.Review{RepoFullName: repo, PRNumber: 1, Provider: "openai", Content: "first",
		CreatedAt: time.Now().Add(-time.Minute).UTC()}
	require.NoError(t, store.SaveReview(ctx, first))
	assert.NotZero(t, first.ID)

	second := &core.Review{RepoFullName: repo, PRNumber: 1, Provider: "anthropic", Content: "second"}
	require.NoError(t, store.SaveReview(ctx, second))

	got, err := store.GetLatestReviewForPR(ctx, repo, 1)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Content)
	assert.Equal(t, second.ID, got.ID)
}

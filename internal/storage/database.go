// Package storage persists finished reviews.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/pr-stream/internal/core"
)

// ErrNotFound is returned when no review exists for a pull request.
var ErrNotFound = errors.New("review not found")

// Store defines the interface for all database operations.
type Store interface {
	SaveReview(ctx context.Context, review *core.Review) error
	GetLatestReviewForPR(ctx context.Context, repoFullName string, prNumber int) (*core.Review, error)
}

type postgresStore struct {
	db *sqlx.DB
	// now is replaced in tests.
	now func() time.Time
}

// NewStore creates a Store backed by the reviews table.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db, now: time.Now}
}

type reviewRow struct {
	ID            int64     `db:"id"`
	RepoFullName  string    `db:"repo_full_name"`
	PRNumber      int       `db:"pr_number"`
	HeadSHA       string    `db:"head_sha"`
	Provider      string    `db:"provider"`
	Model         string    `db:"model"`
	Content       string    `db:"content"`
	TokenEstimate int       `db:"token_estimate"`
	TotalFiles    int       `db:"total_files"`
	Additions     int       `db:"additions"`
	Deletions     int       `db:"deletions"`
	CreatedAt     time.Time `db:"created_at"`
}

func toRow(r *core.Review) reviewRow {
	return reviewRow{
		ID:            r.ID,
		RepoFullName:  r.RepoFullName,
		PRNumber:      r.PRNumber,
		HeadSHA:       r.HeadSHA,
		Provider:      r.Provider,
		Model:         r.Model,
		Content:       r.Content,
		TokenEstimate: r.TokenEstimate,
		TotalFiles:    r.Summary.TotalFiles,
		Additions:     r.Summary.Additions,
		Deletions:     r.Summary.Deletions,
		CreatedAt:     r.CreatedAt,
	}
}

func (row reviewRow) toReview() *core.Review {
	return &core.Review{
		ID:            row.ID,
		RepoFullName:  row.RepoFullName,
		PRNumber:      row.PRNumber,
		HeadSHA:       row.HeadSHA,
		Provider:      row.Provider,
		Model:         row.Model,
		Content:       row.Content,
		TokenEstimate: row.TokenEstimate,
		Summary: core.Summary{
			TotalFiles: row.TotalFiles,
			Additions:  row.Additions,
			Deletions:  row.Deletions,
		},
		CreatedAt: row.CreatedAt,
	}
}

const insertReview = `
	INSERT INTO reviews (repo_full_name, pr_number, head_sha, provider, model, content,
		token_estimate, total_files, additions, deletions, created_at)
	VALUES (:repo_full_name, :pr_number, :head_sha, :provider, :model, :content,
		:token_estimate, :total_files, :additions, :deletions, :created_at)
	RETURNING id`

// SaveReview inserts a new review record and sets its ID and CreatedAt.
func (s *postgresStore) SaveReview(ctx context.Context, review *core.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.now().UTC()
	}

	rows, err := sqlx.NamedQueryContext(ctx, s.db, insertReview, toRow(review))
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&review.ID); err != nil {
			return fmt.Errorf("failed to read review id: %w", err)
		}
	}
	return rows.Err()
}

// GetLatestReviewForPR retrieves the most recent review for a given pull request.
func (s *postgresStore) GetLatestReviewForPR(ctx context.Context, repoFullName string, prNumber int) (*core.Review, error) {
	query := `
		SELECT id, repo_full_name, pr_number, head_sha, provider, model, content,
			token_estimate, total_files, additions, deletions, created_at
		FROM reviews
		WHERE repo_full_name = $1 AND pr_number = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var row reviewRow
	if err := s.db.GetContext(ctx, &row, query, repoFullName, prNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w for PR %s#%d", ErrNotFound, repoFullName, prNumber)
		}
		return nil, err
	}
	return row.toReview(), nil
}

// ReviewFromResult builds the record stored for a finished review.
func ReviewFromResult(req core.ReviewRequest, result *core.ReviewResult) *core.Review {
	return &core.Review{
		RepoFullName:  req.FullName(),
		PRNumber:      req.PRNumber,
		HeadSHA:       result.HeadSHA,
		Provider:      result.Provider,
		Model:         result.Model,
		Content:       result.Content,
		TokenEstimate: result.TokenUsageEstimate,
		Summary:       result.Summary,
		CreatedAt:     result.CompletedAt,
	}
}

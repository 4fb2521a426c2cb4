package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sevigo/pr-stream/internal/storage"
)

// HistoryHandler serves stored reviews.
type HistoryHandler struct {
	store  storage.Store
	logger *slog.Logger
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(store storage.Store, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{store: store, logger: logger}
}

type reviewResponse struct {
	ID            int64  `json:"id"`
	Repo          string `json:"repo"`
	PRNumber      int    `json:"pr_number"`
	HeadSHA       string `json:"head_sha,omitempty"`
	Provider      string `json:"provider"`
	Model         string `json:"model,omitempty"`
	Content       string `json:"content"`
	TokenEstimate int    `json:"token_estimate"`
	TotalFiles    int    `json:"total_files"`
	Additions     int    `json:"additions"`
	Deletions     int    `json:"deletions"`
	CreatedAt     string `json:"created_at"`
}

// Latest writes the most recent stored review of a pull request.
func (h *HistoryHandler) Latest(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	review, err := h.store.GetLatestReviewForPR(r.Context(), req.FullName(), req.PRNumber)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "No review found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load latest review", "repo", req.FullName(), "pr", req.PRNumber, "error", err)
		http.Error(w, "Failed to load review", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reviewResponse{
		ID:            review.ID,
		Repo:          review.RepoFullName,
		PRNumber:      review.PRNumber,
		HeadSHA:       review.HeadSHA,
		Provider:      review.Provider,
		Model:         review.Model,
		Content:       review.Content,
		TokenEstimate: review.TokenEstimate,
		TotalFiles:    review.Summary.TotalFiles,
		Additions:     review.Summary.Additions,
		Deletions:     review.Summary.Deletions,
		CreatedAt:     review.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import "time"

// FileStatus is the change status of a file in a pull request.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileRemoved  FileStatus = "removed"
	FileRenamed  FileStatus = "renamed"
)

// ChangedFile is one file touched by the reviewed change. Values are treated as
// immutable once fetched; filtering removes files but never edits them.
type ChangedFile struct {
	Name      string     `json:"name"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Patch     string     `json:"patch,omitempty"`
}

// PullRequest holds the metadata of the change under review.
type PullRequest struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Author       string `json:"author"`
	BaseBranch   string `json:"base_branch"`
	HeadBranch   string `json:"head_branch"`
	HeadSHA      string `json:"head_sha"`
	Commits      int    `json:"commits"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	ChangedFiles int    `json:"changed_files"`
}

// ReviewRequest identifies a pull request to review plus optional per-request
// overrides of the configured provider and prompt template.
type ReviewRequest struct {
	Owner    string
	Repo     string
	PRNumber int

	// Provider overrides the configured provider id when non-empty.
	Provider string
	// PromptTemplate overrides the configured template when non-empty.
	PromptTemplate string
}

// FullName returns "owner/repo".
func (r ReviewRequest) FullName() string {
	return r.Owner + "/" + r.Repo
}

// Summary aggregates the size of the change.
type Summary struct {
	TotalFiles int `json:"total_files"`
	Additions  int `json:"additions"`
	Deletions  int `json:"deletions"`
}

// ReviewResult is the finished output of one review request.
type ReviewResult struct {
	Content            string        `json:"content"`
	Files              []ChangedFile `json:"files"`
	Summary            Summary       `json:"summary"`
	TokenUsageEstimate int           `json:"token_usage_estimate"`

	HeadSHA        string    `json:"head_sha,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	Model          string    `json:"model,omitempty"`
	DecodeWarnings int       `json:"decode_warnings,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Review is a stored review record.
type Review struct {
	ID            int64
	RepoFullName  string
	PRNumber      int
	HeadSHA       string
	Provider      string
	Model         string
	Content       string
	TokenEstimate int
	Summary       Summary
	CreatedAt     time.Time
}

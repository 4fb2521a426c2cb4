// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/pr-stream/internal/core"
)

const perPage = 100

// Client defines the pull request operations the review pipeline consumes.
// All listing methods follow pagination until the last page.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*core.PullRequest, error)
	GetChangedFiles(ctx context.Context, owner, repo string, number int) ([]core.ChangedFile, error)
	GetReviewDecisions(ctx context.Context, owner, repo string, number int) ([]core.ReviewDecision, error)
	GetReviewComments(ctx context.Context, owner, repo string, number int) ([]core.ReviewComment, error)
	GetIssueComments(ctx context.Context, owner, repo string, number int) ([]core.IssueComment, error)
	SubmitReviewComment(ctx context.Context, owner, repo string, number int, body string) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a new GitHub client authenticated with a Personal Access Token (PAT).
// A non-empty baseURL targets a GitHub Enterprise Server API root.
func NewPATClient(ctx context.Context, token, baseURL string, logger *slog.Logger) (Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", baseURL, err)
		}
	}
	return &gitHubClient{client: client, logger: logger}, nil
}

// GetPullRequest retrieves a single pull request by its number.
func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*core.PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, err
	}
	return &core.PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Description:  pr.GetBody(),
		Author:       pr.GetUser().GetLogin(),
		BaseBranch:   pr.GetBase().GetRef(),
		HeadBranch:   pr.GetHead().GetRef(),
		HeadSHA:      pr.GetHead().GetSHA(),
		Commits:      pr.GetCommits(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
	}, nil
}

// GetChangedFiles retrieves the list of files modified in a pull request.
// It handles pagination automatically to ensure all files are fetched
// from the GitHub API, which returns a maximum of 100 files per page.
func (g *gitHubClient) GetChangedFiles(ctx context.Context, owner, repo string, number int) ([]core.ChangedFile, error) {
	var allFiles []core.ChangedFile
	opts := &github.ListOptions{PerPage: perPage}

	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list files for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, file := range files {
			allFiles = append(allFiles, core.ChangedFile{
				Name:      file.GetFilename(),
				Status:    fileStatus(file.GetStatus()),
				Additions: file.GetAdditions(),
				Deletions: file.GetDeletions(),
				Patch:     file.GetPatch(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allFiles, nil
}

// GetReviewDecisions lists submitted reviews with their verdicts.
func (g *gitHubClient) GetReviewDecisions(ctx context.Context, owner, repo string, number int) ([]core.ReviewDecision, error) {
	var out []core.ReviewDecision
	opts := &github.ListOptions{PerPage: perPage}

	for {
		reviews, resp, err := g.client.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list reviews", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, r := range reviews {
			out = append(out, core.ReviewDecision{
				Author:    r.GetUser().GetLogin(),
				State:     core.ReviewState(r.GetState()),
				Body:      r.GetBody(),
				Timestamp: r.GetSubmittedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// GetReviewComments lists inline review comments. The line falls back to the
// diff position when GitHub reports no line, e.g. for outdated comments.
func (g *gitHubClient) GetReviewComments(ctx context.Context, owner, repo string, number int) ([]core.ReviewComment, error) {
	var out []core.ReviewComment
	opts := &github.PullRequestListCommentsOptions{ListOptions: github.ListOptions{PerPage: perPage}}

	for {
		comments, resp, err := g.client.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list review comments", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, c := range comments {
			line := c.GetLine()
			if line == 0 {
				line = c.GetPosition()
			}
			out = append(out, core.ReviewComment{
				Author:    c.GetUser().GetLogin(),
				Body:      c.GetBody(),
				File:      c.GetPath(),
				Line:      line,
				Timestamp: c.GetCreatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// GetIssueComments lists the general conversation comments of the pull request.
func (g *gitHubClient) GetIssueComments(ctx context.Context, owner, repo string, number int) ([]core.IssueComment, error) {
	var out []core.IssueComment
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: perPage}}

	for {
		comments, resp, err := g.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list issue comments", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, c := range comments {
			out = append(out, core.IssueComment{
				Author:    c.GetUser().GetLogin(),
				Body:      c.GetBody(),
				Timestamp: c.GetCreatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// SubmitReviewComment posts body as a pull request review with the COMMENT event.
func (g *gitHubClient) SubmitReviewComment(ctx context.Context, owner, repo string, number int, body string) error {
	reviewRequest := &github.PullRequestReviewRequest{
		Body:  &body,
		Event: github.Ptr("COMMENT"),
	}

	_, _, err := g.client.PullRequests.CreateReview(ctx, owner, repo, number, reviewRequest)
	if err != nil {
		g.logger.Error("failed to create pull request review", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}

func fileStatus(s string) core.FileStatus {
	switch s {
	case "added", "copied":
		return core.FileAdded
	case "removed":
		return core.FileRemoved
	case "renamed":
		return core.FileRenamed
	default:
		return core.FileModified
	}
}

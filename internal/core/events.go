package core

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v73/github"
)

// ReviewCommand is the comment body that triggers a review from a pull request conversation.
const ReviewCommand = "/review"

// ReviewEvent is the internal view of a webhook that asked for a review.
type ReviewEvent struct {
	Request        ReviewRequest
	RepoFullName   string
	Commenter      string
	InstallationID int64
}

// EventFromIssueComment transforms a raw GitHub IssueCommentEvent into a ReviewEvent.
// Only "/review" comments on pull requests are accepted. An optional provider id may
// follow the command, e.g. "/review anthropic".
func EventFromIssueComment(event *github.IssueCommentEvent) (*ReviewEvent, error) {
	if !event.GetIssue().IsPullRequest() {
		return nil, fmt.Errorf("comment is not on a pull request")
	}

	fields := strings.Fields(event.GetComment().GetBody())
	if len(fields) == 0 || !strings.EqualFold(fields[0], ReviewCommand) || len(fields) > 2 {
		return nil, fmt.Errorf("comment is not a review command")
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner() == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}

	prNumber := event.GetIssue().GetNumber()
	if prNumber <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", prNumber)
	}

	if event.GetComment().GetUser() == nil || event.GetComment().GetUser().GetLogin() == "" {
		return nil, fmt.Errorf("commenter information is missing from the event")
	}

	req := ReviewRequest{
		Owner:    repo.GetOwner().GetLogin(),
		Repo:     repo.GetName(),
		PRNumber: prNumber,
	}
	if len(fields) == 2 {
		req.Provider = strings.ToLower(fields[1])
	}

	return &ReviewEvent{
		Request:        req,
		RepoFullName:   repo.GetFullName(),
		Commenter:      event.GetComment().GetUser().GetLogin(),
		InstallationID: event.GetInstallation().GetID(),
	}, nil
}

package core

import "time"

// ReviewState is the verdict carried by a review decision.
type ReviewState string

const (
	StateApproved         ReviewState = "APPROVED"
	StateChangesRequested ReviewState = "CHANGES_REQUESTED"
	StateCommented        ReviewState = "COMMENTED"
	StateDismissed        ReviewState = "DISMISSED"
	StatePending          ReviewState = "PENDING"
)

// NonNeutral reports whether the verdict approves or requests changes.
func (s ReviewState) NonNeutral() bool {
	return s == StateApproved || s == StateChangesRequested
}

// FeedbackItem is one prior human review signal. The set of implementations is
// closed: ReviewDecision, ReviewComment and IssueComment.
type FeedbackItem interface {
	FeedbackAuthor() string
	FeedbackBody() string
	FeedbackTime() time.Time
	feedback()
}

// ReviewDecision is a submitted review with a verdict.
type ReviewDecision struct {
	Author    string
	State     ReviewState
	Body      string
	Timestamp time.Time
}

// ReviewComment is an inline comment attached to a file line.
type ReviewComment struct {
	Author    string
	Body      string
	File      string
	Line      int
	Timestamp time.Time
}

// IssueComment is a general conversation comment on the pull request.
type IssueComment struct {
	Author    string
	Body      string
	Timestamp time.Time
}

func (d ReviewDecision) FeedbackAuthor() string  { return d.Author }
func (d ReviewDecision) FeedbackBody() string    { return d.Body }
func (d ReviewDecision) FeedbackTime() time.Time { return d.Timestamp }
func (ReviewDecision) feedback()                 {}

func (c ReviewComment) FeedbackAuthor() string  { return c.Author }
func (c ReviewComment) FeedbackBody() string    { return c.Body }
func (c ReviewComment) FeedbackTime() time.Time { return c.Timestamp }
func (ReviewComment) feedback()                 {}

func (c IssueComment) FeedbackAuthor() string  { return c.Author }
func (c IssueComment) FeedbackBody() string    { return c.Body }
func (c IssueComment) FeedbackTime() time.Time { return c.Timestamp }
func (IssueComment) feedback()                 {}

// Feedback groups the three history lists fetched for a pull request.
type Feedback struct {
	Decisions     []ReviewDecision
	Comments      []ReviewComment
	IssueComments []IssueComment
}

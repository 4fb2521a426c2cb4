package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sevigo/pr-stream/internal/core"
)

// NoFeedback is rendered when no prior review signal survives filtering.
const NoFeedback = "No prior reviews or comments."

var verdictLabels = map[core.ReviewState]string{
	core.StateApproved:         "approved the pull request",
	core.StateChangesRequested: "requested changes",
	core.StateCommented:        "commented",
	core.StateDismissed:        "dismissed a review",
}

// AggregateFeedback merges prior review signals into one chronological
// narrative. Items with a blank body are dropped unless they are approve or
// request-changes decisions. Ordering is a stable sort on timestamp so that
// ties keep source order: decisions, then inline comments, then general
// comments. Zero timestamps sort first.
func AggregateFeedback(f core.Feedback) string {
	items := make([]core.FeedbackItem, 0, len(f.Decisions)+len(f.Comments)+len(f.IssueComments))
	for _, d := range f.Decisions {
		if strings.TrimSpace(d.Body) != "" || d.State.NonNeutral() {
			items = append(items, d)
		}
	}
	for _, c := range f.Comments {
		if strings.TrimSpace(c.Body) != "" {
			items = append(items, c)
		}
	}
	for _, c := range f.IssueComments {
		if strings.TrimSpace(c.Body) != "" {
			items = append(items, c)
		}
	}

	if len(items) == 0 {
		return NoFeedback
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].FeedbackTime().Before(items[j].FeedbackTime())
	})

	blocks := make([]string, len(items))
	for i, item := range items {
		blocks[i] = renderFeedback(item)
	}
	return strings.Join(blocks, "\n\n")
}

func renderFeedback(item core.FeedbackItem) string {
	body := strings.TrimSpace(item.FeedbackBody())

	switch v := item.(type) {
	case core.ReviewDecision:
		head := fmt.Sprintf("%s %s", v.Author, verdictLabel(v.State))
		if body == "" {
			return head
		}
		return head + ": " + body
	case core.ReviewComment:
		if v.Line > 0 {
			return fmt.Sprintf("%s at %s line %d: %s", v.Author, v.File, v.Line, body)
		}
		return fmt.Sprintf("%s at %s: %s", v.Author, v.File, body)
	default:
		return fmt.Sprintf("%s: %s", item.FeedbackAuthor(), body)
	}
}

func verdictLabel(s core.ReviewState) string {
	if label, ok := verdictLabels[s]; ok {
		return label
	}
	return strings.ToLower(string(s))
}

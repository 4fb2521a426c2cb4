package github

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sevigo/pr-stream/internal/core"
)

const reviewHeader = "### 📝 PR Stream Review"

// FormatReviewBody renders a finished review as the markdown body of a pull
// request review: header, generated content, and a footer with change size
// and token estimate.
func FormatReviewBody(result *core.ReviewResult) string {
	if result == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(reviewHeader)
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(result.Content))
	sb.WriteString("\n\n---\n")

	files := "files"
	if result.Summary.TotalFiles == 1 {
		files = "file"
	}
	fmt.Fprintf(&sb, "<sub>%s %s changed (+%s -%s)",
		humanize.Comma(int64(result.Summary.TotalFiles)), files,
		humanize.Comma(int64(result.Summary.Additions)),
		humanize.Comma(int64(result.Summary.Deletions)))

	if model := modelLabel(result); model != "" {
		fmt.Fprintf(&sb, " · %s", model)
	}
	fmt.Fprintf(&sb, " · ~%s tokens</sub>\n", humanize.Comma(int64(result.TokenUsageEstimate)))

	return sb.String()
}

func modelLabel(result *core.ReviewResult) string {
	switch {
	case result.Provider != "" && result.Model != "":
		return result.Provider + "/" + result.Model
	case result.Provider != "":
		return result.Provider
	default:
		return result.Model
	}
}

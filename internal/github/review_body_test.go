package github

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/pr-stream/internal/core"
)

func TestFormatReviewBody(t *testing.T) {
	tests := []struct {
		name     string
		result   *core.ReviewResult
		contains []string
		excludes []string
	}{
		{
			name: "full footer",
			result: &core.ReviewResult{
				Content:            "  Looks fine.\n",
				Summary:            core.Summary{TotalFiles: 3, Additions: 1200, Deletions: 4},
				TokenUsageEstimate: 2048,
				Provider:           "openai",
				Model:              "gpt-4",
			},
			contains: []string{
				reviewHeader,
				"\n\nLooks fine.\n\n---\n",
				"3 files changed (+1,200 -4)",
				"openai/gpt-4",
				"~2,048 tokens",
			},
		},
		{
			name: "single file without model",
			result: &core.ReviewResult{
				Content: "ok",
				Summary: core.Summary{TotalFiles: 1, Additions: 10, Deletions: 2},
			},
			contains: []string{"1 file changed (+10 -2) · ~0 tokens"},
			excludes: []string{"gpt", "openai"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatReviewBody(tt.result)
			for _, c := range tt.contains {
				assert.Contains(t, got, c)
			}
			for _, e := range tt.excludes {
				assert.NotContains(t, got, e)
			}
		})
	}

	assert.Empty(t, FormatReviewBody(nil))
}

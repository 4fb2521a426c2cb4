package review

import (
	"strings"

	"github.com/samber/lo"

	"github.com/sevigo/pr-stream/internal/core"
)

// FilterFiles drops every file matched by an ignore pattern, preserving order.
// A pattern of the form "*.ext" matches any name ending in ".ext"; any other
// pattern must equal the full file name. An empty result is ErrNoFilesToReview.
func FilterFiles(files []core.ChangedFile, patterns []string) ([]core.ChangedFile, error) {
	kept := lo.Reject(files, func(f core.ChangedFile, _ int) bool {
		return Ignored(f.Name, patterns)
	})
	if len(kept) == 0 {
		return nil, core.ErrNoFilesToReview
	}
	return kept, nil
}

// Ignored reports whether name matches any of the patterns.
func Ignored(name string, patterns []string) bool {
	return lo.ContainsBy(patterns, func(p string) bool {
		return matchPattern(name, strings.TrimSpace(p))
	})
}

func matchPattern(name, pattern string) bool {
	if pattern == "" {
		return false
	}
	if ext, ok := strings.CutPrefix(pattern, "*."); ok {
		return ext != "" && strings.HasSuffix(name, "."+ext)
	}
	return name == pattern
}

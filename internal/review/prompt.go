package review

import (
	"fmt"
	"path"
	"strings"

	"github.com/samber/lo"

	"github.com/sevigo/pr-stream/internal/core"
)

// Template placeholders. None of them is required to be present.
const (
	PlaceholderFiles    = "{files}"
	PlaceholderDiff     = "{diff}"
	PlaceholderLanguage = "{language}"
	PlaceholderReviews  = "{reviews}"
)

// AssemblePrompt substitutes every occurrence of the four placeholders in tmpl.
// Substitution is a single pass, so text that a placeholder expands to is never
// expanded again.
func AssemblePrompt(tmpl string, files []core.ChangedFile, feedback string) (string, error) {
	r := strings.NewReplacer(
		PlaceholderFiles, FileSummary(files),
		PlaceholderDiff, DiffBlock(files),
		PlaceholderLanguage, strings.Join(Languages(files), ", "),
		PlaceholderReviews, feedback,
	)

	prompt := r.Replace(tmpl)
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("assemble prompt: %w", core.ErrEmptyPrompt)
	}
	return prompt, nil
}

// FileSummary renders one "name (status: +a -d)" line per file.
func FileSummary(files []core.ChangedFile) string {
	lines := lo.Map(files, func(f core.ChangedFile, _ int) string {
		return fmt.Sprintf("%s (%s: +%d -%d)", f.Name, f.Status, f.Additions, f.Deletions)
	})
	return strings.Join(lines, "\n")
}

// DiffBlock renders each file's patch under a "=== name ===" header.
func DiffBlock(files []core.ChangedFile) string {
	blocks := lo.Map(files, func(f core.ChangedFile, _ int) string {
		return "=== " + f.Name + " ===\n" + f.Patch
	})
	return strings.Join(blocks, "\n\n")
}

// Languages returns the distinct file-name suffixes in first-occurrence order.
// Files without a dot in their base name contribute nothing.
func Languages(files []core.ChangedFile) []string {
	exts := lo.FilterMap(files, func(f core.ChangedFile, _ int) (string, bool) {
		base := path.Base(f.Name)
		i := strings.LastIndex(base, ".")
		if i < 0 || i == len(base)-1 {
			return "", false
		}
		return base[i+1:], true
	})
	return lo.Uniq(exts)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit [pr-url] [file]",
	Short: "Post review text to a pull request",
	Long: `Post review text to a pull request as a review comment.

The text is read from file, or from stdin when file is omitted or "-".

Examples:
  prstream submit owner/repo#123 review.md
  prstream review --json owner/repo#123 | jq -r .result.content | prstream submit owner/repo#123`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSubmit,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	req, err := requestFromArg(args[0])
	if err != nil {
		return err
	}

	text, err := readReviewText(args[1:])
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("review text is empty")
	}

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	if err := s.pipeline.Submit(ctx, req, text); err != nil {
		return err
	}
	successColor.Printf("✔ review posted to %s#%d\n", req.FullName(), req.PRNumber)
	return nil
}

func readReviewText(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read review file: %w", err)
	}
	return string(data), nil
}

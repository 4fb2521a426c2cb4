package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sevigo/pr-stream/internal/db"
	"github.com/sevigo/pr-stream/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history [pr-url]",
	Short: "Show the last stored review of a pull request",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	req, err := requestFromArg(args[0])
	if err != nil {
		return err
	}

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	if !s.cfg.Database.Enabled {
		return errors.New("review history is disabled; set database.enabled in the config")
	}

	conn, cleanup, err := db.NewDatabase(&s.cfg.Database, s.logger)
	if err != nil {
		return err
	}
	defer cleanup()

	rev, err := storage.NewStore(conn.DB).GetLatestReviewForPR(ctx, req.FullName(), req.PRNumber)
	if errors.Is(err, storage.ErrNotFound) {
		dimColor.Printf("No stored review for %s#%d\n", req.FullName(), req.PRNumber)
		return nil
	}
	if err != nil {
		return err
	}

	titleColor.Printf("📝 %s#%d", rev.RepoFullName, rev.PRNumber)
	dimColor.Printf("  %s · %s · %s\n\n", rev.Provider, humanize.Time(rev.CreatedAt), shortSHA(rev.HeadSHA))
	fmt.Println(rev.Content)
	dimColor.Printf("\n%s files, +%s -%s, ~%s tokens\n",
		humanize.Comma(int64(rev.Summary.TotalFiles)),
		humanize.Comma(int64(rev.Summary.Additions)),
		humanize.Comma(int64(rev.Summary.Deletions)),
		humanize.Comma(int64(rev.TokenEstimate)))
	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

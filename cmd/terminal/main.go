package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/github"
	"github.com/sevigo/pr-stream/internal/jobs"
	"github.com/sevigo/pr-stream/internal/logger"
	"github.com/sevigo/pr-stream/internal/review"
)

func main() {
	themeFlag := flag.String("theme", "", "UI theme (cyan, matrix, amber, dracula, light)")
	listThemes := flag.Bool("list-themes", false, "List all available themes")
	providerFlag := flag.String("provider", "", "Completion provider for this run")
	configFlag := flag.String("config", "", "Config file (default ./config.yaml)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <pr-url | owner/repo#number>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listThemes {
		fmt.Println("Available themes:")
		for _, theme := range ListThemes() {
			fmt.Printf("  - %s\n", theme)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	selectedTheme := *themeFlag
	if selectedTheme == "" {
		selectedTheme = os.Getenv("PRS_THEME")
	}
	if selectedTheme == "" {
		selectedTheme = string(ThemeCyan)
	}
	theme := ThemeName(selectedTheme)
	if !slices.Contains(ListThemes(), theme) {
		fmt.Printf("Invalid theme '%s'. Use --list-themes to see available options.\n", theme)
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *configFlag, *providerFlag, theme); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ref, cfgPath, provider string, theme ThemeName) error {
	ctx := context.Background()

	owner, repo, number, err := github.ParsePullRequestURL(ref)
	if err != nil {
		return err
	}

	cfg, err := config.Load(viper.New(), cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	// The UI owns the terminal; logs only go to a file.
	cfg.Logging.Output = "file"
	log := logger.NewLogger(cfg.Logging, nil)

	prompts, err := review.NewPromptManager()
	if err != nil {
		return err
	}

	var gh github.Client
	if cfg.GitHub.Token != "" {
		gh, err = github.NewPATClient(ctx, cfg.GitHub.Token, cfg.GitHub.BaseURL, log)
		if err != nil {
			return err
		}
	}
	pipeline := jobs.NewPipeline(cfg, gh, jobs.NewCompleterFactory(http.DefaultClient, log), prompts, log)

	req := core.ReviewRequest{Owner: owner, Repo: repo, PRNumber: number, Provider: provider}
	title := fmt.Sprintf("%s#%d", req.FullName(), req.PRNumber)

	m := newModel(ctx, pipeline, req, title, theme)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if m.err != nil {
		return m.err
	}
	if m.result != nil {
		fmt.Println(m.result.Content)
	}
	return nil
}

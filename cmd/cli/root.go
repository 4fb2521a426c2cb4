package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/github"
	"github.com/sevigo/pr-stream/internal/jobs"
	"github.com/sevigo/pr-stream/internal/logger"
	"github.com/sevigo/pr-stream/internal/review"
)

var (
	cfgFile     string
	githubToken string
	logLevel    string
	profilePath string
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

var rootCmd = &cobra.Command{
	Use:   "prstream",
	Short: "prstream streams AI reviews of GitHub pull requests to your terminal.",
	Long: `prstream fetches a pull request's changed files and prior review discussion,
builds a review prompt and streams the completion of the configured provider
as it is generated.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub token")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "YAML review profile applied on top of the config")

	if err := viper.BindPFlag("github.token", rootCmd.PersistentFlags().Lookup("github-token")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// session is the configuration and pipeline shared by the subcommands.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *jobs.Pipeline
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	if profilePath != "" {
		profile, err := config.LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		profile.Apply(cfg)
	}

	log := logger.NewLogger(cfg.Logging, nil)

	prompts, err := review.NewPromptManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	var gh github.Client
	if cfg.GitHub.Token != "" {
		gh, err = github.NewPATClient(ctx, cfg.GitHub.Token, cfg.GitHub.BaseURL, log)
		if err != nil {
			return nil, err
		}
	}

	pipeline := jobs.NewPipeline(cfg, gh, jobs.NewCompleterFactory(http.DefaultClient, log), prompts, log)
	return &session{cfg: cfg, logger: log, pipeline: pipeline}, nil
}

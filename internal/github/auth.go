package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"

	"github.com/sevigo/pr-stream/internal/config"
)

// CreateInstallationClient creates a GitHub client authenticated as a specific
// application installation. The returned token is the current installation
// token; the client itself refreshes it transparently.
func CreateInstallationClient(ctx context.Context, cfg config.GitHubConfig, installationID int64, logger *slog.Logger) (Client, string, error) {
	logger.Info("creating GitHub installation client", "installation_id", installationID)

	if cfg.AppID == 0 {
		return nil, "", errors.New("github.app_id is not configured")
	}

	privateKey, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read private key from %s: %w", cfg.PrivateKeyPath, err)
	}

	itr, err := ghinstallation.New(http.DefaultTransport, cfg.AppID, installationID, privateKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create GitHub App installation transport: %w", err)
	}

	client := github.NewClient(&http.Client{Transport: itr})
	if cfg.BaseURL != "" {
		itr.BaseURL = cfg.BaseURL
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("invalid GitHub base URL %q: %w", cfg.BaseURL, err)
		}
	}

	token, err := itr.Token(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create installation token for installation ID %d: %w", installationID, err)
	}
	if token == "" {
		return nil, "", errors.New("received an empty installation token")
	}
	logger.Info("created installation token", "installation_id", installationID)

	return NewGitHubClient(client, logger), token, nil
}

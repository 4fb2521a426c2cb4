package jobs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sevigo/pr-stream/internal/core"
)

// validateRequest ensures the request identifies a pull request.
func validateRequest(req core.ReviewRequest) error {
	if strings.TrimSpace(req.Owner) == "" {
		return errors.New("repository owner cannot be empty")
	}
	if strings.TrimSpace(req.Repo) == "" {
		return errors.New("repository name cannot be empty")
	}
	if req.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got: %d", req.PRNumber)
	}
	return nil
}

// validateEvent ensures a webhook event carries everything a job needs.
func validateEvent(event *core.ReviewEvent) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if err := validateRequest(event.Request); err != nil {
		return err
	}
	if event.InstallationID <= 0 {
		return fmt.Errorf("installation ID must be positive, got: %d", event.InstallationID)
	}
	return nil
}

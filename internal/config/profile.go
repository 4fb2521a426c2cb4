package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrProfileNotFound = errors.New("profile file not found")
	ErrProfileParsing  = errors.New("profile parsing failed")
)

// Profile is a YAML review profile that overrides parts of the configuration
// for a single run. Empty fields leave the configured value untouched.
type Profile struct {
	Provider       string   `yaml:"provider"`
	PromptTemplate string   `yaml:"prompt_template"`
	SystemPrompt   string   `yaml:"system_prompt"`
	IgnoreFiles    []string `yaml:"ignore_files"`
	MaxTokens      int      `yaml:"max_tokens"`
}

// LoadProfile loads and parses a review profile from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileParsing, err)
	}
	return &p, nil
}

// Apply overlays the profile onto cfg. Ignore patterns are appended so a
// profile can only narrow the reviewed set.
func (p *Profile) Apply(cfg *Config) {
	if p == nil || cfg == nil {
		return
	}
	if p.Provider != "" {
		cfg.AI.Provider = p.Provider
	}
	if p.PromptTemplate != "" {
		cfg.Review.PromptTemplate = p.PromptTemplate
	}
	if p.SystemPrompt != "" {
		cfg.Review.SystemPrompt = p.SystemPrompt
	}
	if p.MaxTokens > 0 {
		cfg.Review.MaxTokens = p.MaxTokens
	}
	cfg.Review.IgnoreFiles = append(cfg.Review.IgnoreFiles, p.IgnoreFiles...)
}

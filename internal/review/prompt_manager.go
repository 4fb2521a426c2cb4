package review

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

type ModelProvider string
type PromptKey string

const (
	DefaultProvider ModelProvider = "default"
	ReviewPrompt    PromptKey     = "review"
	SystemPrompt    PromptKey     = "system"
)

// PromptManager holds the built-in prompt templates, keyed by purpose and
// provider. Files are named "<key>_<provider>.prompt"; a "default" provider
// entry is the fallback for providers without a dedicated file.
type PromptManager struct {
	prompts map[PromptKey]map[ModelProvider]string
}

func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[PromptKey]map[ModelProvider]string),
	}

	files, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		fileName := file.Name()
		baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		lastUnderscore := strings.LastIndex(baseName, "_")
		if lastUnderscore <= 0 || lastUnderscore == len(baseName)-1 {
			return nil, fmt.Errorf("invalid prompt filename format: %s (expected 'key_provider.prompt' with non-empty key and provider)", fileName)
		}

		content, err := promptFiles.ReadFile("prompts/" + fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded prompt file %s: %w", fileName, err)
		}

		pm.Register(PromptKey(baseName[:lastUnderscore]), ModelProvider(baseName[lastUnderscore+1:]), string(content))
	}

	return pm, nil
}

// Register adds or replaces a template.
func (pm *PromptManager) Register(key PromptKey, provider ModelProvider, content string) {
	if _, ok := pm.prompts[key]; !ok {
		pm.prompts[key] = make(map[ModelProvider]string)
	}
	pm.prompts[key][provider] = strings.TrimRight(content, "\n")
}

// Get returns the template for key and provider, falling back to the default
// provider entry.
func (pm *PromptManager) Get(key PromptKey, provider ModelProvider) (string, error) {
	taskPrompts, ok := pm.prompts[key]
	if !ok {
		return "", fmt.Errorf("no prompts found for key '%s'", key)
	}

	if tmpl, ok := taskPrompts[provider]; ok {
		return tmpl, nil
	}
	if tmpl, ok := taskPrompts[DefaultProvider]; ok {
		return tmpl, nil
	}

	return "", fmt.Errorf("no template found for key '%s' and provider '%s', and no default was available", key, provider)
}

// Resolve picks the template to use: override first, then the configured
// template, then the built-in one for the provider.
func (pm *PromptManager) Resolve(key PromptKey, provider ModelProvider, override, configured string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}
	if strings.TrimSpace(configured) != "" {
		return configured, nil
	}
	return pm.Get(key, provider)
}

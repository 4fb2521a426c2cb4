package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/pr-stream/internal/logger"
)

// ProviderID names a completion provider. The set is closed.
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "openai"
	ProviderAnthropic ProviderID = "anthropic"
)

const (
	DefaultOpenAIEndpoint    = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel       = "gpt-4"
	DefaultAnthropicEndpoint = "https://api.anthropic.com/v1/messages"
	DefaultAnthropicModel    = "claude-3-5-sonnet-latest"
	DefaultAnthropicVersion  = "2023-06-01"
	DefaultMaxTokens         = 1000
	DefaultTemperature       = 0.7
)

// ErrUnknownProvider is returned when a provider id is outside the supported set.
var ErrUnknownProvider = errors.New("unknown provider")

// Config holds the application's configuration values.
type Config struct {
	GitHub   GitHubConfig  `mapstructure:"github"`
	AI       AIConfig      `mapstructure:"ai"`
	Review   ReviewConfig  `mapstructure:"review"`
	Server   ServerConfig  `mapstructure:"server"`
	Logging  logger.Config `mapstructure:"logging"`
	Database DBConfig      `mapstructure:"database"`
}

// GitHubConfig holds source-control credentials. Either Token (PAT) or the App
// fields are used depending on the entry point.
type GitHubConfig struct {
	Token          string `mapstructure:"token"`
	BaseURL        string `mapstructure:"base_url"`
	AppID          int64  `mapstructure:"app_id"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
}

// AIConfig selects the completion provider and holds per-provider settings.
type AIConfig struct {
	Provider       string          `mapstructure:"provider"`
	Streaming      bool            `mapstructure:"streaming"`
	Temperature    float32         `mapstructure:"temperature"`
	RequestTimeout time.Duration   `mapstructure:"request_timeout"`
	OpenAI         ProviderSection `mapstructure:"openai"`
	Anthropic      ProviderSection `mapstructure:"anthropic"`
}

// ProviderSection is the per-provider block of AIConfig.
type ProviderSection struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	Version  string `mapstructure:"version"`
}

// ReviewConfig controls what enters the prompt.
type ReviewConfig struct {
	PromptTemplate  string   `mapstructure:"prompt_template"`
	SystemPrompt    string   `mapstructure:"system_prompt"`
	IgnoreFiles     []string `mapstructure:"ignore_files"`
	MaxTokens       int      `mapstructure:"max_tokens"`
	IncludeFeedback bool     `mapstructure:"include_feedback"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Port       string `mapstructure:"port"`
	MaxWorkers int    `mapstructure:"max_workers"`
	QueueSize  int    `mapstructure:"queue_size"`
	// APIToken is the bearer token required by the review API routes. The
	// routes are not mounted when it is empty.
	APIToken string `mapstructure:"api_token"`
}

// DBConfig holds the review history database settings.
type DBConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// ProviderConfig is the resolved configuration of one completion provider.
type ProviderConfig struct {
	ID          ProviderID
	APIKey      string
	Model       string
	Endpoint    string
	Version     string
	MaxTokens   int
	Temperature float32
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", string(ProviderOpenAI))
	v.SetDefault("ai.streaming", true)
	v.SetDefault("ai.temperature", DefaultTemperature)
	v.SetDefault("ai.request_timeout", 5*time.Minute)
	v.SetDefault("ai.openai.endpoint", DefaultOpenAIEndpoint)
	v.SetDefault("ai.openai.model", DefaultOpenAIModel)
	v.SetDefault("ai.anthropic.endpoint", DefaultAnthropicEndpoint)
	v.SetDefault("ai.anthropic.model", DefaultAnthropicModel)
	v.SetDefault("ai.anthropic.version", DefaultAnthropicVersion)
	v.SetDefault("review.max_tokens", DefaultMaxTokens)
	v.SetDefault("review.include_feedback", true)
	v.SetDefault("review.ignore_files", []string{})
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.max_workers", 5)
	v.SetDefault("server.queue_size", 100)
	v.SetDefault("github.private_key_path", "keys/pr-stream.private-key.pem")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.file", "pr-stream.log")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)
}

// LoadConfig reads configuration from an optional config file and PRS_-prefixed
// environment variables, applying defaults. Missing credentials are not an
// error here; the review pipeline checks them before any network call.
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper(), "")
}

// Load reads configuration into a Config using v. When path is empty the file
// "config.yaml" is looked up in the working directory.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("PRS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			if path != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Error("failed to read config file", "error", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if cfg.Review.MaxTokens <= 0 {
		cfg.Review.MaxTokens = DefaultMaxTokens
	}
	if cfg.Server.MaxWorkers <= 0 {
		cfg.Server.MaxWorkers = 1
	}
	return &cfg, nil
}

// envBindings lists keys without defaults, which AutomaticEnv alone does not
// surface through Unmarshal. Credentials also accept their conventional names.
var envBindings = [][]string{
	{"github.token", "PRS_GITHUB_TOKEN", "GITHUB_TOKEN"},
	{"github.base_url", "PRS_GITHUB_BASE_URL"},
	{"github.app_id", "PRS_GITHUB_APP_ID"},
	{"github.webhook_secret", "PRS_GITHUB_WEBHOOK_SECRET"},
	{"ai.openai.api_key", "PRS_AI_OPENAI_API_KEY", "OPENAI_API_KEY"},
	{"ai.anthropic.api_key", "PRS_AI_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	{"server.api_token", "PRS_SERVER_API_TOKEN"},
	{"review.prompt_template", "PRS_REVIEW_PROMPT_TEMPLATE"},
	{"review.system_prompt", "PRS_REVIEW_SYSTEM_PROMPT"},
	{"database.enabled", "PRS_DATABASE_ENABLED"},
	{"database.host", "PRS_DATABASE_HOST"},
	{"database.username", "PRS_DATABASE_USERNAME"},
	{"database.password", "PRS_DATABASE_PASSWORD"},
	{"database.database", "PRS_DATABASE_DATABASE"},
}

func bindEnv(v *viper.Viper) error {
	for _, b := range envBindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", b[0], err)
		}
	}
	return nil
}

// Provider resolves the ProviderConfig for id. An empty id selects the
// configured default provider.
func (c *Config) Provider(id string) (ProviderConfig, error) {
	if id == "" {
		id = c.AI.Provider
	}

	var section ProviderSection
	pid := ProviderID(strings.ToLower(strings.TrimSpace(id)))
	switch pid {
	case ProviderOpenAI:
		section = c.AI.OpenAI
		if section.Endpoint == "" {
			section.Endpoint = DefaultOpenAIEndpoint
		}
		if section.Model == "" {
			section.Model = DefaultOpenAIModel
		}
	case ProviderAnthropic:
		section = c.AI.Anthropic
		if section.Endpoint == "" {
			section.Endpoint = DefaultAnthropicEndpoint
		}
		if section.Model == "" {
			section.Model = DefaultAnthropicModel
		}
		if section.Version == "" {
			section.Version = DefaultAnthropicVersion
		}
	default:
		return ProviderConfig{}, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}

	maxTokens := c.Review.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return ProviderConfig{
		ID:          pid,
		APIKey:      section.APIKey,
		Model:       section.Model,
		Endpoint:    section.Endpoint,
		Version:     section.Version,
		MaxTokens:   maxTokens,
		Temperature: c.AI.Temperature,
	}, nil
}

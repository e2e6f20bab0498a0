package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
	LLM         LLMConfig         `toml:"llm"`
	Claude      ClaudeConfig      `toml:"claude"`
	Gemini      GeminiConfig      `toml:"gemini"`
	OpenAI      OpenAIConfig      `toml:"openai"`
	DeepSeek    DeepSeekConfig    `toml:"deepseek"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Analysis    AnalysisConfig    `toml:"analysis"`
	Alerts      AlertsConfig      `toml:"alerts"`
	Edgar       EdgarConfig       `toml:"edgar"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// LLMConfig holds provider-independent generation settings.
type LLMConfig struct {
	DefaultProvider string        `toml:"default_provider"` // claude, gemini, openai, deepseek
	Timeout         time.Duration `toml:"timeout"`          // Upper bound for one provider call
	MaxTokens       int           `toml:"max_tokens"`
	Temperature     float32       `toml:"temperature"`
}

type ClaudeConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

type DeepSeekConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// EmbeddingConfig controls vector generation for the report store.
type EmbeddingConfig struct {
	Model     string `toml:"model"`     // Gemini embedding model
	Dimension int    `toml:"dimension"` // Output dimensionality
}

// AnalysisConfig controls the analyzer pipeline.
type AnalysisConfig struct {
	ContextReports int `toml:"context_reports"`  // Prior reports pulled for historical context
	MaxPromptChars int `toml:"max_prompt_chars"` // Truncation budget for report text
}

type AlertsConfig struct {
	ThresholdsFile string `toml:"thresholds_file"` // Optional YAML thresholds file
}

type EdgarConfig struct {
	UserAgent string `toml:"user_agent"` // SEC requires a descriptive User-Agent
	RateLimit int    `toml:"rate_limit"` // Requests per second
}

type MaintenanceConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule for badger value-log GC
}

// NewDefaultConfig returns configuration defaults applied before any file
// or environment overrides.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/lucrum",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		LLM: LLMConfig{
			DefaultProvider: "claude",
			Timeout:         60 * time.Second,
			MaxTokens:       4000,
			Temperature:     0.3,
		},
		Claude: ClaudeConfig{
			Model: "claude-sonnet-4-20250514",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		OpenAI: OpenAIConfig{
			Model:   "gpt-4o",
			BaseURL: "https://api.openai.com/v1",
		},
		DeepSeek: DeepSeekConfig{
			Model:   "deepseek-chat",
			BaseURL: "https://api.deepseek.com/v1",
		},
		Embedding: EmbeddingConfig{
			Model:     "gemini-embedding-001",
			Dimension: 768,
		},
		Analysis: AnalysisConfig{
			ContextReports: 2,
			MaxPromptChars: 100000,
		},
		Edgar: EdgarConfig{
			UserAgent: "lucrum/1.0 (earnings analysis; admin@ternarybob.com)",
			RateLimit: 10,
		},
		Maintenance: MaintenanceConfig{
			Enabled:  true,
			Schedule: "0 * * * *",
		},
	}
}

// LoadFromFiles loads configuration from defaults, then applies each config
// file in order (later files override earlier ones), then environment
// variables. Missing files are an error; an empty path list is not.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if config.Maintenance.Enabled {
		if err := ValidateSchedule(config.Maintenance.Schedule); err != nil {
			return nil, fmt.Errorf("invalid maintenance schedule: %w", err)
		}
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Provider API keys use the conventional vendor variable names.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		config.OpenAI.APIKey = v
	}
	if v := os.Getenv("DEEPSEEK_API_KEY"); v != "" {
		config.DeepSeek.APIKey = v
	}
	if v := os.Getenv("LUCRUM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("LUCRUM_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("LUCRUM_DATA_DIR"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("LUCRUM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("LUCRUM_ENV"); v != "" {
		config.Environment = v
	}
}

// ApplyFlagOverrides applies command-line flag overrides. Flags have the
// highest priority in the configuration chain.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ValidateSchedule validates a cron schedule expression.
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("schedule is empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}
	return nil
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

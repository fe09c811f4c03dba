// Package config provides configuration for the assistant relay.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ModeMock swaps the OpenAI client and the Sheets sink for in-memory fakes.
	ModeMock = "MOCK"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the relay configuration.
type Config struct {
	// Remote assistant
	OpenAIAPIKey      string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	OpenAIAssistantID string `yaml:"openai_assistant_id" env:"OPENAI_ASSISTANT_ID"`
	AssistantMode     string `yaml:"assistant_mode" env:"ASSISTANT_MODE"`

	// Front ends
	TelegramToken string `yaml:"tg_bot_token" env:"TG_BOT_TOKEN"`
	HTTPPort      int    `yaml:"http_port" env:"HTTP_PORT"`

	// Google Sheets booking sink
	GoogleServiceAccount     string `yaml:"google_service_account" env:"GOOGLE_SERVICE_ACCOUNT"`
	GoogleServiceAccountFile string `yaml:"google_service_account_file" env:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	SheetID                  string `yaml:"google_sheets_spreadsheet_id" env:"GOOGLE_SHEETS_SPREADSHEET_ID"`
	SheetWorksheet           string `yaml:"google_sheets_worksheet" env:"GOOGLE_SHEETS_WORKSHEET"`

	// Session store
	SessionBackend string `yaml:"session_backend" env:"SESSION_BACKEND"`
	BotThreadsPath string `yaml:"bot_threads_path" env:"BOT_THREADS_PATH"`
	WebThreadsPath string `yaml:"web_threads_path" env:"WEB_THREADS_PATH"`
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`

	// Run loop
	PollInterval  time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`
	RunTimeout    time.Duration `yaml:"run_timeout" env:"RUN_TIMEOUT"`
	MessageWindow int           `yaml:"message_window" env:"MESSAGE_WINDOW"`

	// Capabilities
	DisabledCapabilities []string `yaml:"disabled_capabilities" env:"DISABLED_CAPABILITIES" envSeparator:","`
	PolicyFile           string   `yaml:"policy_file" env:"POLICY_FILE"`

	// Logging
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		HTTPPort:       8000,
		SessionBackend: BackendFile,
		BotThreadsPath: "data/threads.json",
		WebThreadsPath: "data/web_threads.json",
		DatabaseURL:    "file:data/sessions.db?cache=shared&mode=rwc",
		PollInterval:   800 * time.Millisecond,
		RunTimeout:     120 * time.Second,
		MessageWindow:  10,
		LogLevel:       "info",
	}
}

// Load layers defaults, an optional .env file, an optional YAML file named
// by CONFIG_FILE and finally the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.OpenAIAPIKey = strings.TrimSpace(c.OpenAIAPIKey)
	c.OpenAIAssistantID = strings.TrimSpace(c.OpenAIAssistantID)
	c.TelegramToken = strings.TrimSpace(c.TelegramToken)
	c.GoogleServiceAccountFile = strings.TrimSpace(c.GoogleServiceAccountFile)
	c.SheetID = strings.TrimSpace(c.SheetID)
	c.SheetWorksheet = strings.TrimSpace(c.SheetWorksheet)
	c.AssistantMode = strings.ToUpper(strings.TrimSpace(c.AssistantMode))
	c.SessionBackend = strings.ToLower(strings.TrimSpace(c.SessionBackend))

	defaults := Default()
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = defaults.RunTimeout
	}
	if c.MessageWindow <= 0 {
		c.MessageWindow = defaults.MessageWindow
	}
	if c.SessionBackend == "" {
		c.SessionBackend = defaults.SessionBackend
	}
}

// Mock reports whether the relay runs against in-memory fakes.
func (c *Config) Mock() bool {
	return c.AssistantMode == ModeMock
}

// Validate checks that every variable the selected front end needs is set and
// reports all missing ones at once.
func (c *Config) Validate(requireBot bool) error {
	var missing []string
	if !c.Mock() {
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
		if c.OpenAIAssistantID == "" {
			missing = append(missing, "OPENAI_ASSISTANT_ID")
		}
	}
	if requireBot && c.TelegramToken == "" {
		missing = append(missing, "TG_BOT_TOKEN")
	}
	if !c.Mock() {
		if c.GoogleServiceAccountFile == "" {
			missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_FILE")
		}
		if c.SheetID == "" {
			missing = append(missing, "GOOGLE_SHEETS_SPREADSHEET_ID")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	switch c.SessionBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	return nil
}

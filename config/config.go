package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API    APIConfig    `yaml:"api"`
	Poller PollerConfig `yaml:"poller"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// APIConfig describes how to reach the document-processing backend.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PollerConfig bounds job polling. Timeouts are attempt budgets, not wall-clock
// deadlines: a job is declared timed out after max_attempts status checks.
type PollerConfig struct {
	IntervalMs  int `yaml:"interval_ms"`
	MaxAttempts int `yaml:"max_attempts"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ServerConfig configures the bundled reference backend (legalai serve).
type ServerConfig struct {
	Port         int              `yaml:"port"`
	MaxDocuments int              `yaml:"max_documents"`
	Processing   ProcessingConfig `yaml:"processing"`
	Auth         AuthConfig       `yaml:"auth"`
	Storage      StorageConfig    `yaml:"storage"`
	OpenAI       OpenAIConfig     `yaml:"openai"`
	Users        []User           `yaml:"users"`
}

// ProcessingConfig tunes the simulated OCR pipeline.
type ProcessingConfig struct {
	DelayMs int `yaml:"delay_ms"` // per-step delay of the simulated extraction
	Steps   int `yaml:"steps"`    // number of pending ticks before a job completes
}

type AuthConfig struct {
	Enabled          bool   `yaml:"enabled"`
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

// StorageConfig selects where uploaded file bytes live.
type StorageConfig struct {
	Type  string      `yaml:"type"` // memory, minio
	Minio MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// OpenAIConfig enables real LLM replies for chat and enrichment on the
// reference backend. Empty api_key means canned responses.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads the config at path, falling back to defaults when the
// file does not exist. Other read/parse errors are still reported.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Default returns a config suitable for talking to a local reference backend.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 60
	}
	if c.Poller.IntervalMs == 0 {
		c.Poller.IntervalMs = 1500
	}
	if c.Poller.MaxAttempts == 0 {
		c.Poller.MaxAttempts = 60
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MaxDocuments == 0 {
		c.Server.MaxDocuments = 100
	}
	if c.Server.Processing.DelayMs == 0 {
		c.Server.Processing.DelayMs = 1000
	}
	if c.Server.Processing.Steps == 0 {
		c.Server.Processing.Steps = 3
	}
	if c.Server.Auth.TokenExpireHours == 0 {
		c.Server.Auth.TokenExpireHours = 24
	}
	if c.Server.Storage.Type == "" {
		c.Server.Storage.Type = "memory"
	}
	if c.Server.OpenAI.Model == "" {
		c.Server.OpenAI.Model = "gpt-4o-mini"
	}
}

// APITimeout returns the HTTP client timeout for backend calls.
func (c *APIConfig) APITimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Interval returns the poll interval as a duration.
func (c *PollerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// FindUser finds a configured user by username.
func (c *ServerConfig) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}

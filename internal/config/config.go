// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Host string `envconfig:"ISSUESCOUT_HOST" yaml:"host"`
	Port int    `envconfig:"ISSUESCOUT_PORT" yaml:"port"`

	// IssuesFile seeds the issue store from a JSON file at startup.
	IssuesFile string `envconfig:"ISSUESCOUT_ISSUES_FILE" yaml:"issues_file"`

	// History configuration
	History HistoryConfig `yaml:"history"`

	// Bus configuration
	Bus BusConfig `yaml:"bus"`

	// Search configuration
	Search SearchConfig `yaml:"search"`

	// Logging configuration
	Log LogConfig `yaml:"log"`

	// Security configuration
	Security SecurityConfig `yaml:"security"`

	// Observability configuration
	Observability ObservabilityConfig `yaml:"observability"`
}

// HistoryConfig holds search history settings.
type HistoryConfig struct {
	Type     string `envconfig:"ISSUESCOUT_HISTORY_TYPE" yaml:"type"`
	RedisURL string `envconfig:"ISSUESCOUT_REDIS_URL" yaml:"redis_url"`
}

// BusConfig holds event bus settings.
type BusConfig struct {
	Type         string `envconfig:"ISSUESCOUT_BUS_TYPE" yaml:"type"`
	KafkaBrokers string `envconfig:"ISSUESCOUT_KAFKA_BROKERS" yaml:"kafka_brokers"`
	KafkaGroup   string `envconfig:"ISSUESCOUT_KAFKA_GROUP" yaml:"kafka_group"`
}

// SearchConfig holds search and ranking settings.
type SearchConfig struct {
	DefaultSort  string `envconfig:"ISSUESCOUT_DEFAULT_SORT" yaml:"default_sort"`
	MaxResults   int    `envconfig:"ISSUESCOUT_MAX_RESULTS" yaml:"max_results"` // 0 = unlimited
	MaxQuerySize int    `envconfig:"ISSUESCOUT_MAX_QUERY_SIZE" yaml:"max_query_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"ISSUESCOUT_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"ISSUESCOUT_LOG_FORMAT" yaml:"format"`
}

// SecurityConfig holds security settings.
type SecurityConfig struct {
	RateLimit   int    `envconfig:"ISSUESCOUT_RATE_LIMIT" yaml:"rate_limit"` // requests/min per IP, 0 = disabled
	CORSOrigins string `envconfig:"ISSUESCOUT_CORS_ORIGINS" yaml:"cors_origins"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	MetricsEnabled bool   `envconfig:"ISSUESCOUT_METRICS_ENABLED" yaml:"metrics_enabled"`
	MetricsPath    string `envconfig:"ISSUESCOUT_METRICS_PATH" yaml:"metrics_path"`
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Host = "0.0.0.0"
	cfg.Port = 8080

	cfg.History = HistoryConfig{
		Type:     "memory",
		RedisURL: "redis://localhost:6379",
	}

	cfg.Bus = BusConfig{
		Type: "memory",
	}

	cfg.Search = SearchConfig{
		DefaultSort:  "relevance",
		MaxResults:   0,
		MaxQuerySize: 1024,
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}

	cfg.Security = SecurityConfig{
		RateLimit:   0,
		CORSOrigins: "*",
	}

	cfg.Observability = ObservabilityConfig{
		MetricsEnabled: true,
		MetricsPath:    "/metrics",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	// History validation
	validHistoryTypes := map[string]bool{"memory": true, "redis": true}
	if !validHistoryTypes[c.History.Type] {
		errs = append(errs, fmt.Sprintf("invalid history type: %s (must be memory or redis)", c.History.Type))
	}
	if c.History.Type == "redis" && c.History.RedisURL == "" {
		errs = append(errs, "redis_url required for redis history")
	}

	// Bus validation
	validBusTypes := map[string]bool{"memory": true, "kafka": true}
	if !validBusTypes[c.Bus.Type] {
		errs = append(errs, fmt.Sprintf("invalid bus type: %s (must be memory or kafka)", c.Bus.Type))
	}
	if c.Bus.Type == "kafka" && c.Bus.KafkaBrokers == "" {
		errs = append(errs, "kafka_brokers required for kafka bus")
	}

	// Search validation
	validSorts := map[string]bool{"relevance": true, "date": true, "comments": true, "reactions": true}
	if !validSorts[c.Search.DefaultSort] {
		errs = append(errs, fmt.Sprintf("invalid default sort: %s (must be relevance, date, comments, or reactions)", c.Search.DefaultSort))
	}
	if c.Search.MaxQuerySize < 1 {
		errs = append(errs, "max_query_size must be positive")
	}

	// Log validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Address returns the server address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Log.Level == "debug"
}

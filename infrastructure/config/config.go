package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Values come from an
// optional YAML file overlaid with environment variables; environment
// wins.
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress"`
	Environment   string `yaml:"environment"`

	// Local store
	DataPath string `yaml:"dataPath"`

	// Logging and features
	LogLevel      string `yaml:"logLevel"`
	EnableMetrics bool   `yaml:"enableMetrics"`
	EnableCORS    bool   `yaml:"enableCORS"`

	// Autocomplete bridge
	AutocompleteEndpoint string `yaml:"autocompleteEndpoint"`
	AutocompleteAPIKey   string `yaml:"autocompleteApiKey"`

	// Calendar collaborator
	CalendarBaseURL string `yaml:"calendarBaseUrl"`
	CalendarToken   string `yaml:"calendarToken"`
}

// LoadConfig loads configuration from the optional file named by
// CONFIG_FILE (default ./planner.yaml when present) and the
// environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: ":8090",
		Environment:   "development",
		DataPath:      defaultDataPath(),
		LogLevel:      "info",
		EnableMetrics: true,
		EnableCORS:    true,
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		if _, err := os.Stat("planner.yaml"); err == nil {
			path = "planner.yaml"
		}
	}
	if path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(payload, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.DataPath = getEnv("DATA_PATH", cfg.DataPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)
	cfg.AutocompleteEndpoint = getEnv("AUTOCOMPLETE_ENDPOINT", cfg.AutocompleteEndpoint)
	cfg.AutocompleteAPIKey = getEnv("AUTOCOMPLETE_API_KEY", cfg.AutocompleteAPIKey)
	cfg.CalendarBaseURL = getEnv("CALENDAR_BASE_URL", cfg.CalendarBaseURL)
	cfg.CalendarToken = getEnv("CALENDAR_TOKEN", cfg.CalendarToken)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.DataPath == "" {
		return fmt.Errorf("data path must not be empty")
	}
	switch c.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	return nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "planner.db"
	}
	return home + "/.research-planner/planner.db"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

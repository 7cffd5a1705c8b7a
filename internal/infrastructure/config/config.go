package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the local development API address
const DefaultBaseURL = "http://localhost:5000"

// Config holds all configuration for the application
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Sandbox SandboxConfig `mapstructure:"sandbox"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// APIConfig holds the remote kanban API settings
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// StorageConfig holds the durable session storage settings
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SandboxConfig holds settings for the local in-memory API server
type SandboxConfig struct {
	Port               int           `mapstructure:"port"`
	Host               string        `mapstructure:"host"`
	JWTSecret          string        `mapstructure:"jwt_secret"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from .env, an optional kanban.yaml and the environment
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("kanban")
	v.SetConfigType("yaml")
	if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.API.BaseURL = NormalizeBaseURL(cfg.API.BaseURL)

	if cfg.Storage.Path == "" {
		path, err := defaultStoragePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve storage path: %w", err)
		}
		cfg.Storage.Path = path
	}

	// Validate configuration
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", DefaultBaseURL)

	// Storage defaults (empty means the XDG data directory)
	v.SetDefault("storage.path", "")

	// Logger defaults; stdout carries command output
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	// Sandbox defaults
	v.SetDefault("sandbox.port", 5000)
	v.SetDefault("sandbox.host", "127.0.0.1")
	v.SetDefault("sandbox.jwt_secret", "kanban-sandbox-secret")
	v.SetDefault("sandbox.token_ttl", "24h")
	v.SetDefault("sandbox.cors_allowed_origins", "*")
	v.SetDefault("sandbox.rate_limit_requests", 50)
	v.SetDefault("sandbox.rate_limit_window", "1m")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

func bindEnvVars(v *viper.Viper) {
	// API
	v.BindEnv("api.base_url", "KANBAN_API_BASE")

	// Storage
	v.BindEnv("storage.path", "KANBAN_STORAGE_PATH")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILE")

	// Sandbox
	v.BindEnv("sandbox.port", "SANDBOX_PORT")
	v.BindEnv("sandbox.host", "SANDBOX_HOST")
	v.BindEnv("sandbox.jwt_secret", "SANDBOX_JWT_SECRET")
	v.BindEnv("sandbox.token_ttl", "SANDBOX_TOKEN_TTL")
	v.BindEnv("sandbox.cors_allowed_origins", "SANDBOX_CORS_ALLOWED_ORIGINS")
	v.BindEnv("sandbox.rate_limit_requests", "SANDBOX_RATE_LIMIT_REQUESTS")
	v.BindEnv("sandbox.rate_limit_window", "SANDBOX_RATE_LIMIT_WINDOW")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")
}

func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url must use http or https, got %q", cfg.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api base url must include a host")
	}

	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}

	if cfg.Sandbox.Port <= 0 || cfg.Sandbox.Port > 65535 {
		return fmt.Errorf("sandbox port must be between 1 and 65535")
	}

	if cfg.Sandbox.JWTSecret == "" {
		return fmt.Errorf("sandbox JWT secret must be set")
	}

	return nil
}

// NormalizeBaseURL trims whitespace and a single trailing slash, defaulting when empty
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

// Addr returns the sandbox listen address
func (cfg *SandboxConfig) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

func configDir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "kanban"), nil
}

// defaultStoragePath returns $XDG_DATA_HOME/kanban/session.db
func defaultStoragePath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "kanban", "session.db"), nil
}

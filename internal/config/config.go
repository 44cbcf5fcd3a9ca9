package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Quotes   QuotesConfig   `toml:"quotes"`
	Cache    CacheConfig    `toml:"cache"`
	Refresh  RefreshConfig  `toml:"refresh"`
	Logging  LoggingConfig  `toml:"logging"`
	DevMode  bool           `toml:"dev_mode"`
}

// ServerConfig holds listener configuration
type ServerConfig struct {
	HTTPPort int    `toml:"http_port"`
	GRPCPort int    `toml:"grpc_port"`
	Timezone string `toml:"timezone"` // staleness and schedule wall clock; "" means Local
}

// DatabaseConfig holds the Postgres connection settings.
// ConnStr wins over the individual fields when set.
type DatabaseConfig struct {
	ConnStr  string `toml:"conn_str"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
}

// QuotesConfig holds quote source settings
type QuotesConfig struct {
	URL       string `toml:"url"`    // "{ticker}" is replaced by the ticker
	Suffix    string `toml:"suffix"` // appended to fund tickers when requesting quotes
	Timeout   string `toml:"timeout"`
	RateLimit int    `toml:"rate_limit"` // requests per second
}

// CacheConfig holds quote cache store settings
type CacheConfig struct {
	Backend       string `toml:"backend"` // file, sqlite or memory
	Dir           string `toml:"dir"`
	DBPath        string `toml:"db_path"`
	StaleFallback bool   `toml:"stale_fallback"`
}

// RefreshConfig holds the quote refresh job schedule (cron with seconds field)
type RefreshConfig struct {
	Schedule string `toml:"schedule"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// NewDefaultConfig returns the configuration used when nothing is set
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: 8000,
			GRPCPort: 8080,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "fondfolio",
		},
		Quotes: QuotesConfig{
			URL:       "http://norma.netfonds.no/paperhistory.php?paper={ticker}&csv_format=csv",
			Suffix:    ".FOND",
			Timeout:   "15s",
			RateLimit: 5,
		},
		Cache: CacheConfig{
			Backend: "file",
		},
		Refresh: RefreshConfig{
			Schedule: "0 5 18 * * MON-FRI",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads .env (if present), the TOML file named by FONDFOLIO_CONFIG (if any)
// and finally environment variables, later sources overriding earlier ones
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return LoadFrom(os.Getenv("FONDFOLIO_CONFIG"))
}

// LoadFrom merges the given TOML files over the defaults, then applies
// environment overrides. Empty and missing paths are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Server.HTTPPort = getEnvAsInt("HTTP_PORT", cfg.Server.HTTPPort)
	cfg.Server.GRPCPort = getEnvAsInt("GRPC_PORT", cfg.Server.GRPCPort)
	cfg.Server.Timezone = getEnv("TIMEZONE", cfg.Server.Timezone)

	cfg.Database.ConnStr = getEnv("DB_CONN_STR", cfg.Database.ConnStr)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)

	cfg.Quotes.URL = getEnv("QUOTES_URL", cfg.Quotes.URL)
	cfg.Quotes.Suffix = getEnv("QUOTES_SUFFIX", cfg.Quotes.Suffix)
	cfg.Quotes.Timeout = getEnv("QUOTES_TIMEOUT", cfg.Quotes.Timeout)
	cfg.Quotes.RateLimit = getEnvAsInt("QUOTES_RATE_LIMIT", cfg.Quotes.RateLimit)

	cfg.Cache.Backend = getEnv("QUOTE_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.Dir = getEnv("QUOTE_CACHE_DIR", cfg.Cache.Dir)
	cfg.Cache.DBPath = getEnv("QUOTE_CACHE_DB", cfg.Cache.DBPath)
	cfg.Cache.StaleFallback = getEnvAsBool("QUOTE_STALE_FALLBACK", cfg.Cache.StaleFallback)

	cfg.Refresh.Schedule = getEnv("REFRESH_SCHEDULE", cfg.Refresh.Schedule)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Pretty = getEnvAsBool("LOG_PRETTY", cfg.Logging.Pretty)

	cfg.DevMode = getEnvAsBool("DEV_MODE", cfg.DevMode)
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Quotes.URL == "" {
		return fmt.Errorf("QUOTES_URL is required")
	}
	if c.Quotes.RateLimit <= 0 {
		return fmt.Errorf("QUOTES_RATE_LIMIT must be positive, got %d", c.Quotes.RateLimit)
	}
	if _, err := time.ParseDuration(c.Quotes.Timeout); err != nil {
		return fmt.Errorf("invalid QUOTES_TIMEOUT %q: %w", c.Quotes.Timeout, err)
	}
	if _, err := c.Server.Location(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown QUOTE_CACHE_BACKEND %q", c.Cache.Backend)
	}
	return nil
}

// ConnectionString returns the lib/pq connection string
func (c *DatabaseConfig) ConnectionString() string {
	if c.ConnStr != "" {
		return c.ConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// GetTimeout returns the quote fetch timeout
func (c *QuotesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// Location returns the configured time zone
func (c *ServerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

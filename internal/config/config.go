// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// memoryPath is the store path of a private in-memory database.
const memoryPath = ":memory:"

// DefaultCORSOrigins are allowed when CORS_ALLOW_ORIGINS is unset or
// lists nothing usable.
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:3001"}

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Database  DatabaseConfig
	Server    ServerConfig
	CORS      CORSConfig
	Recipes   RecipesConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DatabaseConfig holds store connection configuration.
type DatabaseConfig struct {
	URL  string // As configured, e.g. sqlite:///./recipes.db
	Path string // File path handed to the SQLite driver, or ":memory:"
}

// InMemory reports whether the database lives only for the process lifetime.
func (d DatabaseConfig) InMemory() bool {
	return d.Path == memoryPath
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8000)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	FrontendDir  string        // Static SPA build served when present
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	AllowOrigins []string
}

// RecipesConfig holds recipe listing configuration.
type RecipesConfig struct {
	// PageSize is the list limit used when a request omits one. Always >= 1.
	PageSize int
}

// RateLimitConfig holds per-client request limits. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Enabled reports whether requests should be rate limited.
func (r RateLimitConfig) Enabled() bool {
	return r.RPS > 0
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
//
// args are the command-line arguments without the program name.
func Load(args []string) (*Config, error) {
	fset := flag.NewFlagSet("recipe-server", flag.ContinueOnError)
	fset.SetOutput(io.Discard)

	env := fset.String("env", "", "Environment (development, staging, production)")
	logLevel := fset.String("log-level", "", "Log level (debug, info, warn, error)")
	databaseURL := fset.String("database-url", "", "Database URL (default: sqlite:///./recipes.db)")
	corsOrigins := fset.String("cors-allow-origins", "", "Comma-separated allowed origins")
	pageSize := fset.String("page-size", "", "Default recipe list limit (default: 100)")
	frontendDir := fset.String("frontend-dir", "", "Static frontend build directory")

	// Server flags
	serverPort := fset.String("port", "", "Server port (default: 8000)")
	readTimeout := fset.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fset.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fset.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	envFile := fset.String("env-file", ".env", "Path to .env file")

	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Values already in the environment win over the file.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL: getConfigValue(*databaseURL, "DATABASE_URL", "sqlite:///./recipes.db"),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8000"),
			FrontendDir: getConfigValue(*frontendDir, "FRONTEND_DIR", "frontend/build"),
		},
		CORS: CORSConfig{
			AllowOrigins: ParseOrigins(getConfigValue(*corsOrigins, "CORS_ALLOW_ORIGINS", "")),
		},
		Recipes: RecipesConfig{
			PageSize: max(getIntConfigValue(*pageSize, "RECIPES_PAGE_SIZE", 100), 1),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloatConfigValue("", "RATE_LIMIT_RPS", 20),
			Burst: getIntConfigValue("", "RATE_LIMIT_BURST", 40),
		},
	}

	path, err := ParseDatabaseURL(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	cfg.Database.Path = path

	// Parse server timeouts.
	timeouts := []struct {
		flagValue, envKey, defaultValue string
		dst                             *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
	}
	for _, tt := range timeouts {
		raw := getConfigValue(tt.flagValue, tt.envKey, tt.defaultValue)
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", tt.envKey, raw, err)
		}
		*tt.dst = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Database.Path == "" {
		return errors.New("database path cannot be empty")
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %s", c.Server.Port)
	}

	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	if c.RateLimit.Enabled() && c.RateLimit.Burst == 0 {
		return errors.New("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}

	return nil
}

// ParseDatabaseURL converts a SQLAlchemy-style SQLite URL into a driver path.
//
//	sqlite:///./recipes.db   -> ./recipes.db
//	sqlite:////var/db/r.db   -> /var/db/r.db
//	sqlite:// or :memory:    -> :memory:
//	recipes.db               -> recipes.db
//
// Any other scheme is rejected.
func ParseDatabaseURL(raw string) (string, error) {
	const scheme = "sqlite://"

	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "", errors.New("DATABASE_URL is empty")
	case raw == memoryPath:
		return memoryPath, nil
	case strings.HasPrefix(raw, scheme):
		rest := strings.TrimPrefix(raw, scheme)
		if rest == "" {
			return memoryPath, nil
		}
		if !strings.HasPrefix(rest, "/") {
			return "", fmt.Errorf("invalid DATABASE_URL %q: sqlite URLs take no host, use sqlite:///path", raw)
		}
		rest = rest[1:]
		if rest == "" || rest == memoryPath {
			return memoryPath, nil
		}
		return rest, nil
	case strings.Contains(raw, "://"):
		scheme, _, _ := strings.Cut(raw, "://")
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q: only sqlite is supported", scheme)
	default:
		return raw, nil
	}
}

// ParseOrigins splits a comma-separated origin list, dropping blanks.
// An empty result falls back to DefaultCORSOrigins.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return append([]string(nil), DefaultCORSOrigins...)
	}
	return origins
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strings.TrimSpace(strValue), 64)
	if err != nil {
		return defaultValue
	}
	return result
}

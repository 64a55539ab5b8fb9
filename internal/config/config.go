// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// JWTSecret is the HS256 key bearer tokens are verified with. When empty,
	// every request is anonymous and the account-only endpoints answer 401.
	JWTSecret string `env:"JWT_SECRET"`

	// ParamMaxAttempts bounds how many candidate params are tried per meeting.
	ParamMaxAttempts int `env:"PARAM_MAX_ATTEMPTS" envDefault:"10"`

	// SuggestionLimit is how many stations a suggestion returns.
	SuggestionLimit int `env:"SUGGESTION_LIMIT" envDefault:"5"`

	// RequestTimeout caps the time spent on a single request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// CheckCreatorNickname applies the join-time nickname rules to meeting creators.
	CheckCreatorNickname bool `env:"CHECK_CREATOR_NICKNAME" envDefault:"false"`

	// MigrateOnStart runs pending migrations before the server starts listening.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming any required variable that is not set, or any value
// that is out of range.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	var invalid []string
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, "LOG_LEVEL")
	}
	if cfg.ParamMaxAttempts < 1 {
		invalid = append(invalid, "PARAM_MAX_ATTEMPTS")
	}
	if cfg.SuggestionLimit < 1 {
		invalid = append(invalid, "SUGGESTION_LIMIT")
	}
	if cfg.RequestTimeout <= 0 {
		invalid = append(invalid, "REQUEST_TIMEOUT")
	}
	if cfg.MaxBodyBytes < 1 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// ParseLogLevel converts a LOG_LEVEL value into a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", s)
	}
	return level, nil
}

// trimAll trims every entry, dropping the ones left empty.
func trimAll(parts []string) []string {
	var out []string
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// internal/config/config.go
//
// Process configuration read from the environment (and an optional .env file).
// Responsibilities:
//   - Loading .env via godotenv without overriding variables already set.
//   - Parsing typed settings with defaults via caarlos0/env.
//   - Rejecting values the server cannot run with.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Log formats.
const (
	LogConsole = "console"
	LogJSON    = "json"
)

// Config is the server configuration.
type Config struct {
	Port         string        `env:"PORT"             envDefault:"5175"`
	LogLevel     string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat    string        `env:"LOG_FORMAT"       envDefault:"console"`
	ClientOrigin string        `env:"CLIENT_ORIGIN"`
	SecureCookie bool          `env:"COOKIE_SECURE"    envDefault:"false"`
	JWTSecret    string        `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"        envDefault:"24h"`
	Store        string        `env:"STORE"            envDefault:"memory"`
	DBPath       string        `env:"DB_PATH"          envDefault:"./data/endgame.db"`
	IdleTTL      time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	DailySalt    string        `env:"DAILY_SALT"       envDefault:"local_dev_salt"`
	WordsFile    string        `env:"WORDS_FILE"`
}

// TUIConfig is the terminal client configuration.
type TUIConfig struct {
	LogLevel  string `env:"LOG_LEVEL"        envDefault:"info"`
	LogFile   string `env:"ENDGAME_LOG_FILE"`
	Sound     bool   `env:"ENDGAME_SOUND"    envDefault:"true"`
	WordsFile string `env:"WORDS_FILE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads .env (if present) and parses the server configuration.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadTUI reads .env (if present) and parses the terminal configuration.
func LoadTUI() (TUIConfig, error) {
	_ = godotenv.Load()
	var cfg TUIConfig
	if err := ParseEnv(&cfg); err != nil {
		return TUIConfig{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and bounded settings.
func (c Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StoreMemory, StoreSQLite, c.Store))
	}
	switch c.LogFormat {
	case LogConsole, LogJSON:
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogConsole, LogJSON, c.LogFormat))
	}
	if c.Store == StoreSQLite && c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH is required for the sqlite store"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.IdleTTL < 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TTL must not be negative"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c Config) Addr() string { return ":" + c.Port }

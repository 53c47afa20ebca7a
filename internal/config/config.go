// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Port            int           `envconfig:"PORT" default:"8080"`
		LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
		ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
		CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	DB struct {
		// Driver is "sqlite" or "pgx".
		Driver string `envconfig:"DB_DRIVER" default:"sqlite"`
		// DSN is a file path for sqlite and a connection URL for pgx.
		DSN string `envconfig:"DB_DSN" default:"./data/splitledger.db"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	}

	Audit struct {
		Buffer int `envconfig:"AUDIT_BUFFER" default:"256"`
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// Load reads envFiles (missing files are ignored) and then the process
// environment. Variables already set in the environment win over files.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want sqlite or pgx", c.DB.Driver)
	}
	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.Audit.Buffer <= 0 {
		return errors.New("AUDIT_BUFFER must be positive")
	}
	return nil
}

// Package config loads server settings from .env and the process environment.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSessionSecret = "secret_key_change_me"

type Config struct {
	Env           string `mapstructure:"APP_ENV"`
	Port          string `mapstructure:"PORT"`
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`

	// Redis backs the vote rate limiter; empty disables limiting.
	RedisURL      string `mapstructure:"REDIS_URL"`
	VoteRateLimit int    `mapstructure:"VOTE_RATE_LIMIT"` // votes per identity per minute
}

// Load reads .env (if present) and then the environment. Environment values
// win over .env because godotenv never overwrites variables already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=isitjustme port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("SQLITE_PATH", "isitjustme.db")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("VOTE_RATE_LIMIT", 60)

	// AutomaticEnv only applies to keys viper already knows about, which the
	// defaults above register.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks required values and production safety rules.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.RedisURL != "" && c.VoteRateLimit <= 0 {
		return errors.New("VOTE_RATE_LIMIT must be positive when REDIS_URL is set")
	}

	if c.IsProduction() {
		if c.SessionSecret == defaultSessionSecret || len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be changed and at least 32 characters in production")
		}
		if c.DBDriver == "sqlite" {
			log.Println("WARNING: sqlite in production serializes every vote on one writer")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

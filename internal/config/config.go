// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the server.
type Config struct {
	Port                string `mapstructure:"PORT"`
	DBDriver            string `mapstructure:"DB_DRIVER"`
	DBPath              string `mapstructure:"DB_PATH"`
	DatabaseURL         string `mapstructure:"DATABASE_URL"`
	LogLevel            string `mapstructure:"LOG_LEVEL"`
	JWTSecret           string `mapstructure:"JWT_SECRET"`
	RabbitMQURL         string `mapstructure:"RABBITMQ_URL"`
	EventsExchange      string `mapstructure:"EVENTS_EXCHANGE"`
	LatePaymentSchedule string `mapstructure:"LATE_PAYMENT_SCHEDULE"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var keys = []string{
	"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "LOG_LEVEL",
	"JWT_SECRET", "RABBITMQ_URL", "EVENTS_EXCHANGE", "LATE_PAYMENT_SCHEDULE",
}

// Load reads configuration from environment variables. Values in a .env file
// in the working directory are used for variables that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using environment only")
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_DRIVER", DriverSQLite)
	viper.SetDefault("DB_PATH", "dourou.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("EVENTS_EXCHANGE", "dourou.events")
	viper.SetDefault("LATE_PAYMENT_SCHEDULE", "0 6 * * *") // Every day at 06:00.
	viper.AutomaticEnv()

	for _, key := range keys {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

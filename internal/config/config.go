// Package config defines the application configuration and loads it from
// YAML files and environment variables. Nothing reads configuration
// ambiently; the loaded struct is passed explicitly to each component.
package config

import (
	"fmt"

	"github.com/taskvault/taskvault/internal/auth"
	"github.com/taskvault/taskvault/internal/database"
	"github.com/taskvault/taskvault/internal/logger"
	"github.com/taskvault/taskvault/internal/server"
)

// Config is the full application configuration.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging  logger.Config   `yaml:"logging" mapstructure:"logging"`
	Server   server.Config   `yaml:"server" mapstructure:"server"`
	Database database.Config `yaml:"database" mapstructure:"database"`
	Auth     auth.Config     `yaml:"auth" mapstructure:"auth"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "taskvault"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Auth.ApplyDefaults()
}

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// Load reads configuration from config files and the environment, applies
// defaults, and validates the result.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := loadInto(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

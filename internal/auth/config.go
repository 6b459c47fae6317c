package auth

import (
	"fmt"
	"time"
)

// Config configures token issuance and verification.
type Config struct {
	// Secret is the HMAC signing key. Required; an empty secret is a
	// startup-time fatal condition, never a per-request error.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Issuer is the "iss" claim (optional).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// TokenTTL is the lifetime of issued tokens (e.g. "1h", "15m").
	TokenTTL string `yaml:"token_ttl" mapstructure:"token_ttl"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.TokenTTL == "" {
		c.TokenTTL = "1h"
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if _, err := time.ParseDuration(c.TokenTTL); err != nil {
		return fmt.Errorf("invalid auth.token_ttl %q: %w", c.TokenTTL, err)
	}
	return nil
}

// tokenTTL returns the parsed token lifetime.
func (c *Config) tokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}

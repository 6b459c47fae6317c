package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts file operations so loading can be tested without
// touching the real filesystem.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type realFileSystem struct{}

func (realFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (realFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderOption customizes configuration loading.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	fs         FileSystem
	configFile string
	envFile    string
}

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *loaderConfig) { lc.fs = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

var configSearchPaths = []string{
	"./cmd/taskvault/config.yml",
	"./config/config.yml",
	"./config.yml",
}

var envSearchPaths = []string{
	"./cmd/taskvault/.env",
	"./.env",
}

// loadInto loads YAML config then layers environment variables on top,
// unmarshaling the merged result into cfg. Environment variables win over
// file values; TASKVAULT_ prefixed variables map onto nested keys
// (TASKVAULT_AUTH_SECRET -> auth.secret).
func loadInto(cfg interface{}, opts ...LoaderOption) error {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.fs == nil {
		lc.fs = realFileSystem{}
	}

	v := viper.New()

	configFile := lc.configFile
	if configFile == "" {
		configFile = firstExisting(lc.fs, configSearchPaths)
	}
	if configFile != "" && lc.fs.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	envFile := lc.envFile
	if envFile == "" {
		envFile = firstExisting(lc.fs, envSearchPaths)
	}
	if envFile != "" && lc.fs.Exists(envFile) {
		if err := lc.fs.LoadEnv(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v.SetEnvPrefix("TASKVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvOverrides(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, path := range paths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// bindEnvOverrides maps TASKVAULT_ prefixed environment variables onto
// viper keys. AutomaticEnv alone does not surface variables for keys the
// config file never mentions, so each one is set explicitly.
func bindEnvOverrides(v *viper.Viper) {
	const prefix = "TASKVAULT_"
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(pair[0], prefix))
		for _, variant := range keyVariants(key) {
			v.Set(variant, pair[1])
		}
	}
}

// keyVariants generates the nested key spellings an env var could map to.
// AUTH_TOKEN_TTL (lowered) becomes [auth_token_ttl, auth.token.ttl,
// auth.token_ttl, auth.token.ttl, ...] so multi-word leaf keys resolve.
func keyVariants(key string) []string {
	parts := strings.Split(key, "_")
	if len(parts) <= 1 {
		return []string{key}
	}

	variants := []string{key, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]bool, len(variants))
	out := variants[:0]
	for _, variant := range variants {
		if !seen[variant] {
			seen[variant] = true
			out = append(out, variant)
		}
	}
	return out
}

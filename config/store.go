package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/medibot/medibot/logger"
)

// ConfigDir returns the medibot configuration directory (~/.medibot by
// default, overridable with SetConfigDir).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".medibot"), nil
}

// ConfigPath returns the full path of the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file, applies defaults, and overlays environment
// credentials. A missing config file yields the default config with env
// credentials applied; any other read error is returned.
func Load() (*Config, error) {
	// Optional .env next to the working directory, ignored when absent.
	_ = godotenv.Load()

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		cfg = DefaultConfig()
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config file, creating the config directory if needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ReportsPath returns the absolute reports directory.
func (c *Config) ReportsPath() (string, error) {
	dir := c.Reports.Dir
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		return filepath.Join(home, dir[1:]), nil
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	base, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, dir), nil
}

// EnsureReportsDir creates the reports directory if it does not exist.
func (c *Config) EnsureReportsDir() (string, error) {
	dir, err := c.ReportsPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	return dir, nil
}

// BuildLoggerConfig converts the logging section into logger settings.
func (c *Config) BuildLoggerConfig() logger.Config {
	return logger.Config{
		Enabled: c.Logging.Enabled == nil || *c.Logging.Enabled,
		Level:   c.Logging.Level,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}

// applyEnv overlays environment credentials over the file config. The env
// value wins only when the file carries no key.
func (c *Config) applyEnv() {
	if c.GeminiAPIKey() == "" {
		if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
			c.SetGeminiAPIKey(key)
		}
	}
}

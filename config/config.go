// Package config handles configuration loading and saving.
package config

import (
	"strings"
)

const (
	configFileName = "config.yaml"

	// EnvAPIKey is the environment fallback for the Gemini credential.
	EnvAPIKey = "GEMINI_API_KEY"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Chat      ChatConfig      `json:"chat" yaml:"chat"`
	Providers ProvidersConfig `json:"providers" yaml:"providers"`
	Reports   ReportsConfig   `json:"reports,omitempty" yaml:"reports,omitempty"`
	Logging   LoggingConfig   `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ChatConfig contains chat runtime defaults.
type ChatConfig struct {
	Provider        string  `json:"provider" yaml:"provider"` // gemini
	ModelType       string  `json:"modelType" yaml:"modelType"`
	ModelName       string  `json:"modelName,omitempty" yaml:"modelName,omitempty"` // optional, defaults to modelType
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty" yaml:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP            float64 `json:"topP,omitempty" yaml:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty" yaml:"topK,omitempty"`
	SystemPrompt    string  `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty"`
}

// ProvidersConfig contains provider API configurations.
type ProvidersConfig struct {
	Gemini *ProviderConfig `json:"gemini,omitempty" yaml:"gemini,omitempty"`
}

// ProviderConfig contains API credentials for a provider.
type ProviderConfig struct {
	APIKey  string `json:"apiKey" yaml:"apiKey"`
	APIBase string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"` // optional custom base URL
}

// ReportsConfig controls where exported consultation reports are written.
type ReportsConfig struct {
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"` // defaults to ~/.medibot/reports
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to the terminal
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path
}

// GeminiAPIKey returns the configured Gemini credential, empty when missing.
func (c *Config) GeminiAPIKey() string {
	if c.Providers.Gemini == nil {
		return ""
	}
	return strings.TrimSpace(c.Providers.Gemini.APIKey)
}

// GeminiAPIBase returns the custom Gemini base URL, empty for the default.
func (c *Config) GeminiAPIBase() string {
	if c.Providers.Gemini == nil {
		return ""
	}
	return strings.TrimSpace(c.Providers.Gemini.APIBase)
}

// SetGeminiAPIKey stores the Gemini credential.
func (c *Config) SetGeminiAPIKey(key string) {
	if c.Providers.Gemini == nil {
		c.Providers.Gemini = &ProviderConfig{}
	}
	c.Providers.Gemini.APIKey = strings.TrimSpace(key)
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	useTempConfigDir(t)
	t.Setenv(EnvAPIKey, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini", cfg.Chat.Provider)
	}
	if cfg.Chat.Temperature != 0.7 || cfg.Chat.TopP != 0.95 || cfg.Chat.TopK != 40 {
		t.Errorf("sampling defaults = %v/%v/%v, want 0.7/0.95/40",
			cfg.Chat.Temperature, cfg.Chat.TopP, cfg.Chat.TopK)
	}
	if cfg.Chat.MaxOutputTokens != 150 {
		t.Errorf("MaxOutputTokens = %d, want 150", cfg.Chat.MaxOutputTokens)
	}
	if cfg.Chat.SystemPrompt == "" {
		t.Error("SystemPrompt is empty, want the default instruction")
	}
	if cfg.GeminiAPIKey() != "" {
		t.Errorf("GeminiAPIKey() = %q, want empty", cfg.GeminiAPIKey())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfigDir(t)
	t.Setenv(EnvAPIKey, "")

	cfg := DefaultConfig()
	cfg.Chat.ModelType = "gemini-1.5-pro"
	cfg.SetGeminiAPIKey("file-key")
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Chat.ModelType != "gemini-1.5-pro" {
		t.Errorf("ModelType = %q, want gemini-1.5-pro", got.Chat.ModelType)
	}
	if got.GeminiAPIKey() != "file-key" {
		t.Errorf("GeminiAPIKey() = %q, want file-key", got.GeminiAPIKey())
	}
}

func TestEnvCredentialFallback(t *testing.T) {
	useTempConfigDir(t)
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GeminiAPIKey() != "env-key" {
		t.Errorf("GeminiAPIKey() = %q, want env fallback", cfg.GeminiAPIKey())
	}
}

func TestFileCredentialWinsOverEnv(t *testing.T) {
	useTempConfigDir(t)
	t.Setenv(EnvAPIKey, "env-key")

	cfg := DefaultConfig()
	cfg.SetGeminiAPIKey("file-key")
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.GeminiAPIKey() != "file-key" {
		t.Errorf("GeminiAPIKey() = %q, want the file key to win", got.GeminiAPIKey())
	}
}

func TestPartialFileGetsDefaults(t *testing.T) {
	dir := useTempConfigDir(t)
	t.Setenv(EnvAPIKey, "")

	raw := "chat:\n  modelType: gemini-1.5-pro\n"
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(raw), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat.ModelType != "gemini-1.5-pro" {
		t.Errorf("ModelType = %q, want the file value", cfg.Chat.ModelType)
	}
	if cfg.Chat.Provider != "gemini" || cfg.Chat.TopK != 40 {
		t.Error("missing fields were not defaulted")
	}
}

func TestReportsPathResolution(t *testing.T) {
	dir := useTempConfigDir(t)

	cfg := DefaultConfig()
	got, err := cfg.ReportsPath()
	if err != nil {
		t.Fatalf("ReportsPath() error = %v", err)
	}
	if !strings.HasPrefix(got, dir) {
		t.Errorf("ReportsPath() = %q, want it under the config dir %q", got, dir)
	}

	abs := t.TempDir()
	cfg.Reports.Dir = abs
	got, err = cfg.ReportsPath()
	if err != nil {
		t.Fatalf("ReportsPath() error = %v", err)
	}
	if got != abs {
		t.Errorf("ReportsPath() = %q, want the absolute dir unchanged", got)
	}
}

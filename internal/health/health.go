// Package health builds a diagnostic snapshot for the doctor command.
package health

import (
	"os"
	"runtime"
	"time"
)

// Snapshot describes the current process and configuration state.
type Snapshot struct {
	Status    string      `yaml:"status" json:"status"`
	Timestamp string      `yaml:"timestamp" json:"timestamp"`
	Runtime   RuntimeInfo `yaml:"runtime" json:"runtime"`
	Config    ConfigInfo  `yaml:"config" json:"config"`
	Reports   ReportsInfo `yaml:"reports" json:"reports"`
}

// RuntimeInfo describes the Go runtime.
type RuntimeInfo struct {
	Version    string `yaml:"version" json:"version"`
	OS         string `yaml:"os" json:"os"`
	Arch       string `yaml:"arch" json:"arch"`
	Goroutines int    `yaml:"goroutines" json:"goroutines"`
}

// ConfigInfo describes the configuration state without leaking secrets.
type ConfigInfo struct {
	Path          string `yaml:"path" json:"path"`
	Exists        bool   `yaml:"exists" json:"exists"`
	Provider      string `yaml:"provider" json:"provider"`
	Model         string `yaml:"model" json:"model"`
	CredentialSet bool   `yaml:"credentialSet" json:"credentialSet"`
}

// ReportsInfo describes the report export directory.
type ReportsInfo struct {
	Dir      string `yaml:"dir" json:"dir"`
	Writable bool   `yaml:"writable" json:"writable"`
	Count    int    `yaml:"count" json:"count"`
}

// Options carries the inputs for Collect.
type Options struct {
	ConfigPath    string
	Provider      string
	Model         string
	CredentialSet bool
	ReportsDir    string
}

// Collect returns a health snapshot for the current process.
func Collect(opts Options) Snapshot {
	s := Snapshot{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Runtime: RuntimeInfo{
			Version:    runtime.Version(),
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			Goroutines: runtime.NumGoroutine(),
		},
		Config: ConfigInfo{
			Path:          opts.ConfigPath,
			Provider:      opts.Provider,
			Model:         opts.Model,
			CredentialSet: opts.CredentialSet,
		},
		Reports: ReportsInfo{
			Dir: opts.ReportsDir,
		},
	}

	if _, err := os.Stat(opts.ConfigPath); err == nil {
		s.Config.Exists = true
	}
	if opts.ReportsDir != "" {
		s.Reports.Writable, s.Reports.Count = inspectReportsDir(opts.ReportsDir)
	}

	if !opts.CredentialSet {
		s.Status = "needs-setup"
	}
	return s
}

func inspectReportsDir(dir string) (writable bool, count int) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false, 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, 0
	}
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}
	probe, err := os.CreateTemp(dir, ".medibot-probe-*")
	if err != nil {
		return false, count
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true, count
}

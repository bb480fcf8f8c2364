// medibot is a terminal client for AI health consultations.
package main

import (
	"fmt"
	"os"

	"github.com/medibot/medibot/cmd"
	"github.com/medibot/medibot/config"
	"github.com/medibot/medibot/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	configDir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), configDir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	cmd.Execute()
}

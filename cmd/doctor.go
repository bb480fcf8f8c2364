package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/medibot/medibot/config"
	"github.com/medibot/medibot/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the medibot setup",
	Long:  `Print a diagnostic snapshot: runtime, config state, credential presence, and the reports directory.`,
	RunE:  runDoctor,
}

var doctorFormat string

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "yaml", "Output format: yaml or json")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	reportsDir, err := cfg.ReportsPath()
	if err != nil {
		return err
	}

	snapshot := health.Collect(health.Options{
		ConfigPath:    configPath,
		Provider:      cfg.Chat.Provider,
		Model:         cfg.Chat.ModelType,
		CredentialSet: cfg.GeminiAPIKey() != "",
		ReportsDir:    reportsDir,
	})

	var data []byte
	if strings.EqualFold(doctorFormat, "json") {
		data, err = json.MarshalIndent(snapshot, "", "  ")
	} else {
		data, err = yaml.Marshal(snapshot)
	}
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}

	fmt.Print(string(data))
	if snapshot.Status != "healthy" {
		fmt.Println()
		fmt.Println("Run 'medibot onboard' or set GEMINI_API_KEY to finish setup.")
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/medibot/medibot/config"
	"github.com/medibot/medibot/provider"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize medibot configuration",
	Long:  `Create the medibot configuration directory and default config file.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

const apiKeyPortal = "https://aistudio.google.com/app/apikey"

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	var (
		selectedModel string
		apiKey        string
	)

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose a Gemini model").
				Description("Only whitelisted models are supported. The first option is the recommended default.").
				Options(buildModelOptions()...).
				Value(&selectedModel),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your Gemini API key").
				Description("Create one at "+apiKeyPortal).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("API key is required")
					}
					return nil
				}).
				Value(&apiKey),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Chat.ModelType = selectedModel
	cfg.SetGeminiAPIKey(apiKey)

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	reportsDir, err := cfg.EnsureReportsDir()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("medibot initialized successfully!")
	fmt.Println()
	fmt.Println("  Config:  ", configPath)
	fmt.Println("  Reports: ", reportsDir)
	fmt.Println("  Model:   ", selectedModel)
	fmt.Println()
	fmt.Println("Run 'medibot chat' to start a consultation.")
	return nil
}

func buildModelOptions() []huh.Option[string] {
	models := provider.SupportedModelsForProvider("gemini")
	options := make([]huh.Option[string], 0, len(models))
	for i, m := range models {
		label := m
		if i == 0 {
			label += " [Recommended]"
		}
		options = append(options, huh.NewOption(label, m))
	}
	return options
}

// Package cmd wires the medibot CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medibot/medibot/config"
)

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "medibot",
	Short: "Ask health questions from your terminal",
	Long: `medibot forwards health questions to the Gemini generative-language
API and renders the reply as a consultation report that can be exported to a
file.

Start with 'medibot onboard' to store your API key, then 'medibot chat'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		config.SetConfigDir(configDirFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Override the config directory (default ~/.medibot)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

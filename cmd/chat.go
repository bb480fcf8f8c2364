package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/medibot/medibot/config"
	"github.com/medibot/medibot/msgfmt"
	"github.com/medibot/medibot/provider"
	"github.com/medibot/medibot/report"
	"github.com/medibot/medibot/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the medical assistant",
	Long: `Start an interactive consultation session, or ask a single question
with the -m flag.

Each successful reply carries a report id; use /export in a session (or
--export with -m) to save the consultation report as a text file.

Examples:
  medibot chat
  medibot chat -m "Can I take ibuprofen with food?"
  medibot chat -m "..." --export
  medibot chat --model gemini-1.5-pro`,
	RunE: runChat,
}

var (
	messageFlag string
	exportFlag  bool
	htmlFlag    bool
	modelFlag   string
	apiKeyFlag  string
	apiBaseFlag string
)

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Ask a single question and exit")
	chatCmd.Flags().BoolVar(&exportFlag, "export", false, "Export the report after a single question (requires -m)")
	chatCmd.Flags().BoolVar(&htmlFlag, "html", false, "Export reports as HTML instead of plain text")
	chatCmd.Flags().StringVar(&modelFlag, "model", "", "Override model type (e.g. gemini-1.5-pro)")
	chatCmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Override API key")
	chatCmd.Flags().StringVar(&apiBaseFlag, "api-base", "", "Override API base URL")
}

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	metaStyle   = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyChatOverrides(cfg)

	ctrl, err := buildController(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	styled := term.IsTerminal(int(os.Stdout.Fd()))

	// Single question mode.
	if messageFlag != "" {
		if err := ctrl.Submit(ctx, messageFlag); err != nil {
			fmt.Fprintln(os.Stderr, errLine(ctrl.Err(), styled))
			return err
		}
		entry, _ := ctrl.LastReport()
		fmt.Println(msgfmt.Render(msgfmt.Format(entry.Response), styled))
		if exportFlag {
			path, err := exportEntry(cfg, entry)
			if err != nil {
				return err
			}
			fmt.Println(metaLine("report saved to "+path, styled))
		}
		return nil
	}

	// Interactive mode.
	fmt.Println("medibot consultation session (type 'exit' to quit, /export to save the last report)")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(prompt("you> ", styled))
		input, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Take care!")
			break
		}
		if input == "/export" || strings.HasPrefix(input, "/export ") {
			runExport(cfg, ctrl, strings.TrimSpace(strings.TrimPrefix(input, "/export")), styled)
			continue
		}

		// The loop blocks here until the submission resolves, so input is
		// never read while a request is pending.
		if err := ctrl.Submit(ctx, input); err != nil {
			fmt.Println()
			fmt.Println(errLine(ctrl.Err(), styled))
			fmt.Println()
			continue
		}

		entry, _ := ctrl.LastReport()
		fmt.Println()
		fmt.Println(renderReply(entry, styled))
		fmt.Println(metaLine(fmt.Sprintf("[report %s · %s]", entry.ReportID, entry.Timestamp.Format("15:04")), styled))
		fmt.Println()
	}

	return nil
}

// applyChatOverrides applies CLI flag overrides to config, so a different
// model or key can be tried without editing config.yaml.
func applyChatOverrides(cfg *config.Config) {
	if modelFlag != "" {
		cfg.Chat.ModelType = modelFlag
		cfg.Chat.ModelName = "" // reset so modelType takes effect
	}
	if apiKeyFlag != "" {
		cfg.SetGeminiAPIKey(apiKeyFlag)
	}
	if apiBaseFlag != "" {
		if cfg.Providers.Gemini == nil {
			cfg.Providers.Gemini = &config.ProviderConfig{}
		}
		cfg.Providers.Gemini.APIBase = apiBaseFlag
	}
}

// buildController assembles the conversation controller. A missing
// credential still yields a working controller; submissions then surface the
// configuration message the way any other failure does.
func buildController(cfg *config.Config) (*session.Controller, error) {
	key := cfg.GeminiAPIKey()
	if key == "" {
		return session.New(nil, cfg.Chat.SystemPrompt), nil
	}

	reg, ok := provider.Lookup(cfg.Chat.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", cfg.Chat.Provider)
	}
	if err := provider.ValidateProviderModelType(cfg.Chat.Provider, cfg.Chat.ModelType); err != nil {
		return nil, err
	}

	p := reg.Constructor(key, cfg.GeminiAPIBase(), cfg.Chat.ModelType, cfg.Chat.ModelName, provider.GenerationOptions{
		MaxOutputTokens: cfg.Chat.MaxOutputTokens,
		Temperature:     cfg.Chat.Temperature,
		TopP:            cfg.Chat.TopP,
		TopK:            cfg.Chat.TopK,
	})
	return session.New(p, cfg.Chat.SystemPrompt), nil
}

// runExport saves the report for the given id, or the most recent one when
// id is empty.
func runExport(cfg *config.Config, ctrl *session.Controller, id string, styled bool) {
	var entry session.Entry
	var ok bool
	if id == "" {
		entry, ok = ctrl.LastReport()
		if !ok {
			fmt.Println(errLine("Nothing to export yet — ask a question first.", styled))
			return
		}
	} else {
		entry, ok = ctrl.Report(id)
		if !ok {
			fmt.Println(errLine("No report with id "+id+" in this session.", styled))
			return
		}
	}

	path, err := exportEntry(cfg, entry)
	if err != nil {
		fmt.Println(errLine("Export failed: "+err.Error(), styled))
		return
	}
	fmt.Println(metaLine("report saved to "+path, styled))
}

func exportEntry(cfg *config.Config, entry session.Entry) (string, error) {
	dir, err := cfg.EnsureReportsDir()
	if err != nil {
		return "", err
	}
	if htmlFlag {
		return report.ExportHTML(entry, dir)
	}
	return report.Export(entry, dir)
}

func renderReply(entry session.Entry, styled bool) string {
	header := prompt("medibot> ", styled)
	body := msgfmt.Render(msgfmt.Format(entry.Response), styled)
	return header + body
}

func prompt(s string, styled bool) string {
	if !styled {
		return s
	}
	return promptStyle.Render(s)
}

func metaLine(s string, styled bool) string {
	if !styled {
		return s
	}
	return metaStyle.Render(s)
}

func errLine(s string, styled bool) string {
	if s == "" {
		s = session.GenericErrorMessage
	}
	if !styled {
		return s
	}
	return errStyle.Render(s)
}

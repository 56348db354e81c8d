// Package main provides the CLI entrypoint for lifeweeks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lifeweeks/lifeweeks/internal/assistant"
	"github.com/lifeweeks/lifeweeks/internal/community"
	"github.com/lifeweeks/lifeweeks/internal/config"
	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/logging"
	"github.com/lifeweeks/lifeweeks/internal/model"
	"github.com/lifeweeks/lifeweeks/internal/store"
	"github.com/lifeweeks/lifeweeks/internal/summary"
	"github.com/lifeweeks/lifeweeks/internal/tui"
)

var (
	assistantModel   string
	assistantKey     string
	assistantTimeout int
	feedPath         string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lifeweeks",
		Short:         "Life-in-weeks journal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAppCmd,
	}

	rootCmd.Flags().StringVar(&assistantModel, "model", assistant.DefaultModel, "assistant model id")
	rootCmd.Flags().StringVar(&assistantKey, "api-key", "", "assistant API key (default: $"+assistant.APIKeyEnv+")")
	rootCmd.Flags().IntVar(&assistantTimeout, "timeout", int(assistant.DefaultTimeout/time.Second), "assistant request timeout in seconds")
	rootCmd.Flags().StringVar(&feedPath, "feed", config.DefaultCommunityFeedPath(), "community feed file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSummaryCmd())

	return rootCmd
}

func runAppCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "model", &assistantModel, fileCfg.Assistant.Model)
	applyStringConfig(cmd, "api-key", &assistantKey, fileCfg.Assistant.APIKey)
	applyIntConfig(cmd, "timeout", &assistantTimeout, fileCfg.Assistant.TimeoutSeconds)
	applyStringConfig(cmd, "feed", &feedPath, fileCfg.Community.FeedPath)
	if assistantKey == "" {
		assistantKey = os.Getenv(assistant.APIKeyEnv)
	}
	if assistantTimeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}

	logger, err := logging.New(config.DefaultLogDir())
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := logger.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	dom, err := domain.Open(context.Background(), st)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if expectancy := fileCfg.Life.ExpectancyWeeks; expectancy != nil && !dom.UserData().HasDateOfBirth() {
		data := dom.UserData()
		data.LifeExpectancyWeeks = *expectancy
		if err := dom.SetUserData(context.Background(), data); err != nil {
			logger.Printf("apply configured expectancy: %v", err)
		}
	}

	client := assistant.NewClient(assistantModel, assistantKey,
		assistant.WithTimeout(time.Duration(assistantTimeout)*time.Second))
	if !client.HasAPIKey() {
		logErrf("No API key set; journal drafting is disabled. Set %s or api-key in the config.\n", assistant.APIKeyEnv)
	}
	pipeline := assistant.NewPipeline(client)

	feed, err := community.Load(feedPath)
	if err != nil {
		logger.Printf("load community feed: %v", err)
		feed = community.Feed{}
	}

	root := tui.New(dom, pipeline, feed, logger)
	program := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print a life summary",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	dom, err := domain.Open(context.Background(), st)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	user := dom.UserData()
	stats := summary.Build(user, time.Now())
	unlocked := 0
	achievements := dom.Achievements()
	for _, a := range achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	return summary.Render(cmd.OutOrStdout(), user, stats, dom.Points(), unlocked, len(achievements))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lifeweeks configuration
# Uncomment a value to enable it. CLI flags override config values.

[assistant]
# model = %q              # Generation model
# api-key = ""            # API key (default: $%s)
# timeout-seconds = %d    # Request timeout in seconds

[life]
# expectancy-weeks = %d   # Default life expectancy in weeks (%d-%d)

[community]
# feed-path = ""          # Path to a shared grid feed (YAML)
`,
		assistant.DefaultModel,
		assistant.APIKeyEnv,
		int(assistant.DefaultTimeout/time.Second),
		model.DefaultLifeExpectancyWeeks,
		model.MinLifeExpectancyWeeks,
		model.MaxLifeExpectancyWeeks,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

// Package cli provides the command-line interface for sitechat.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/planhub/sitechat-go/internal/auth"
	"github.com/planhub/sitechat-go/internal/client"
	"github.com/planhub/sitechat-go/internal/config"
	"github.com/planhub/sitechat-go/internal/metrics"
	"github.com/planhub/sitechat-go/internal/session"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose     bool
	projectFlag string

	// Global config and session wiring
	cfg        config.Config
	tokens     *auth.KeyringStore
	controller *session.Controller
	collector  *metrics.Collector
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sitechat",
	Short: "Project assistant chat for construction sites",
	Long: `Sitechat is the terminal client for the project assistant. Ask about
equipment, materials, RFIs and contacts; when the assistant proposes a
change it shows up as an action card that you explicitly approve or
reject before anything is written.

The project context comes from --project, SITECHAT_PROJECT or the
config file; a conversation never outlives its project.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if projectFlag != "" {
			cfg.ProjectID = projectFlag
		}

		// The chat TUI owns the screen; keep its logs in the file only.
		stderrLogs := cmd.Name() != "chat"
		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logCleanup = config.SetupLogger(cfg.LogFile, level, stderrLogs)

		tokens = auth.NewKeyringStore("")

		token, err := tokens.GetToken(cfg.ServerURL)
		if err != nil && !errors.Is(err, auth.ErrTokenNotFound) {
			return fmt.Errorf("read token: %w", err)
		}

		collector = metrics.NewCollector()
		backend := client.New(cfg.ServerURL, token)
		controller = session.NewController(backend, cfg.ProjectID, logger, collector)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// requireProject fails early for commands that need a project context.
func requireProject() error {
	if cfg.ProjectID == "" {
		return fmt.Errorf("no project selected: pass --project, set SITECHAT_PROJECT or configure project_id")
	}
	return nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "project id the chat is scoped to")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(conversationsCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(authCmd)
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/diari/internal/config"
	"github.com/faizmokh/diari/internal/files"
	"github.com/faizmokh/diari/internal/logger"
	"github.com/faizmokh/diari/internal/styles"
	"github.com/faizmokh/diari/internal/ui"
	"github.com/faizmokh/diari/internal/version"
)

// environment carries the collaborators resolved once flags are parsed.
type environment struct {
	manager *files.Manager
	styles  *styles.Styles
	logFile io.Closer
}

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
// A nil manager is resolved from config when the command runs.
func NewRootCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	env := &environment{manager: manager}
	var (
		configPath string
		logPath    string
	)

	cmd := &cobra.Command{
		Use:     "diari",
		Short:   "Write and browse a rich-text journal from your terminal.",
		Version: version.Info(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.setup(configPath, logPath, cmd.Flags().Changed("log-file"))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			env.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m := ui.NewModel(ctx, env.manager, env.styles)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default: $DIARI_HOME/config.toml)")
	cmd.PersistentFlags().StringVar(&logPath, "log-file", "", "Write logs to this file (\"-\" for stderr)")

	for _, day := range dayCommands {
		cmd.AddCommand(newDayCommand(ctx, env, day))
	}
	cmd.AddCommand(
		newJumpCommand(ctx, env),
		newListCommand(ctx, env),
		newSearchCommand(ctx, env),
		newWriteCommand(ctx, env),
		newEditCommand(ctx, env),
		newDeleteCommand(ctx, env),
		newShowCommand(ctx, env),
		newExportCommand(ctx, env),
		newRenderCommand(env),
	)

	return cmd
}

func (e *environment) setup(configPath, logPath string, logFlagSet bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if !logFlagSet {
		logPath = cfg.Logger.File
	}
	if logPath != "" {
		closer, err := logger.OpenFile(logger.ParseLevel(cfg.Logger.Level), logPath)
		if err != nil {
			return err
		}
		e.logFile = closer
	}

	if e.manager == nil {
		e.manager, err = files.NewManager(cfg.DataDir)
		if err != nil {
			return err
		}
	}
	if e.styles == nil {
		e.styles = styles.NewStyles(styles.FromConfig(cfg.Theme))
	}
	logger.Debugf("journal root %s", e.manager.BasePath())
	return nil
}

func (e *environment) close() {
	if e.logFile != nil {
		e.logFile.Close()
		e.logFile = nil
	}
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	return NewRootCommand(ctx, nil).ExecuteContext(ctx)
}

// Main is a helper used by cmd/diari/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

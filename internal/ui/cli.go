package ui

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/madvognen/internal/config"
	"github.com/javiermolinar/madvognen/internal/coordinator"
	"github.com/javiermolinar/madvognen/internal/logging"
	"github.com/javiermolinar/madvognen/internal/upstream"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config  *config.Config
	root    *cobra.Command
	debug   bool // Enable debug logging
	logger  *zap.Logger
	logPath string // log file for the interactive view when none is configured
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, logger: zap.NewNop(), logPath: config.DefaultLogPath()}

	a.root = &cobra.Command{
		Use:   "madvognen",
		Short: "Weekly canteen menu in your terminal",
		Long: `Madvognen fetches the canteen's weekly lunch menu for a customer group.

It picks the week worth showing (next week from Friday afternoon),
fetches Monday through Friday one day at a time, and keeps the last
good menu on screen when the service is unavailable.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(a.config.Log, a.debug)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWatch(cmd.Context())
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.groupsCmd())
	a.root.AddCommand(a.appointmentsCmd())
	a.root.AddCommand(a.runCmd())
	a.root.AddCommand(a.watchCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "madvognen %s (commit: %s)\n", Version, Commit)
		},
	}
}

// client builds an upstream client from the current config.
func (a *App) client() (*upstream.Client, error) {
	_, client, err := coordinator.FromConfig(a.config, a.logger)
	if err != nil {
		return nil, fmt.Errorf("setting up client: %w", err)
	}
	return client, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close flushes the logger.
func (a *App) Close() error {
	_ = a.logger.Sync()
	return nil
}

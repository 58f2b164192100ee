package ui

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/madvognen/internal/coordinator"
	"github.com/javiermolinar/madvognen/internal/logging"
	"github.com/javiermolinar/madvognen/internal/tui"
)

func (a *App) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live weekly menu view",
		Long: `Open the interactive view. It refreshes on the configured schedule.

Keys: r refresh, c copy, q quit.

Logs go to the [log] file, or ~/.config/madvognen/madvognen.log when
none is set, so they never draw over the view.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWatch(cmd.Context())
		},
	}
}

func (a *App) runWatch(ctx context.Context) error {
	if err := a.useWatchLogger(); err != nil {
		return err
	}
	coord, _, err := coordinator.FromConfig(a.config, a.logger)
	if err != nil {
		return err
	}
	sched, err := a.newScheduler()
	if err != nil {
		return err
	}
	return tui.Run(ctx, coord, sched, a.config, a.logger)
}

// useWatchLogger moves logging off the terminal, which the interactive view
// owns, into the configured file or the default log path.
func (a *App) useWatchLogger() error {
	logger, err := logging.New(logging.WithFile(a.config.Log, a.logPath), a.debug)
	if err != nil {
		return err
	}
	_ = a.logger.Sync()
	a.logger = logger
	return nil
}

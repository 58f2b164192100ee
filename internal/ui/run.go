package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/madvognen/internal/coordinator"
	"github.com/javiermolinar/madvognen/internal/scheduler"
	"github.com/javiermolinar/madvognen/internal/sensor"
)

func (a *App) runCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Keep the menu up to date without a UI",
		Long: `Run the update loop headless, printing the sensor state after each update.

Updates happen on start, every [schedule] interval, and daily at
[schedule] daily_at. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			coord, _, err := coordinator.FromConfig(a.config, a.logger)
			if err != nil {
				return err
			}
			sched, err := a.newScheduler()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = sched.Run(ctx, func(ctx context.Context) {
				res := coord.Update(ctx)
				if ctx.Err() != nil {
					return
				}
				if asJSON {
					_ = writeJSON(out, res.Sensors)
					return
				}
				printSnapshots(out, res.Sensors)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each update as JSON")
	return cmd
}

func (a *App) newScheduler() (*scheduler.Scheduler, error) {
	cfg := a.config
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return scheduler.New(scheduler.Options{
		Interval: cfg.Schedule.Interval.Duration,
		DailyAt:  cfg.Schedule.DailyAt,
		Location: loc,
		Logger:   a.logger.Named("scheduler"),
	})
}

func printSnapshots(w io.Writer, snaps []sensor.Snapshot) {
	for _, s := range snaps {
		state := s.State
		if !s.Available {
			state = formatError(state)
		}
		line := fmt.Sprintf("%-18s %s", s.Name, state)
		if e, ok := s.Attributes["last_error"].(string); ok {
			line += "  " + formatMuted(e)
		}
		fmt.Fprintln(w, line)
	}
	if len(snaps) > 0 && snaps[0].Week != nil {
		PrintWeek(w, snaps[0].Week, PrintOpts{ShowDate: true})
	}
}

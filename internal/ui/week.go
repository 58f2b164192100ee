package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/madvognen/internal/coordinator"
	"github.com/javiermolinar/madvognen/internal/dateutil"
	"github.com/javiermolinar/madvognen/internal/menu"
	"github.com/javiermolinar/madvognen/internal/sensor"
)

func (a *App) weekCmd() *cobra.Command {
	var date string
	var group int
	var asJSON bool
	var copyText bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the weekly menu",
		Long: `Fetch and display Monday through Friday of one week.

Without --date the week is chosen from the current time: Monday to
Thursday and Friday morning show this week, Friday from 14:00 and the
weekend show next week.

Examples:
  madvognen week
  madvognen week --date next-week
  madvognen week --date 2025-06-16 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if group == 0 {
				group = a.config.Menu.CustomerGroupID
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			loc := client.Location()
			now := time.Now().In(loc)

			monday := menu.NewSelector(loc).Anchor(now)
			if date != "" {
				d, err := dateutil.ParseRelativeDate(date, now)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				monday = dateutil.MondayOf(d)
			}

			agg := coordinator.NewAggregator(client, a.config, a.logger)
			rec, err := agg.FetchWeek(cmd.Context(), group, monday)
			out := cmd.OutOrStdout()

			if asJSON {
				s := sensor.NewMenuSensor(coordinator.MenuSensorName)
				s.Apply(rec, err, now)
				return writeJSON(out, s.Snapshot())
			}
			if err != nil {
				return fmt.Errorf("fetching week of %s: %w", monday.Format(dateutil.DateLayout), err)
			}

			PrintWeek(out, rec, PrintOpts{ShowDate: true})

			if copyText {
				if err := clipboard.WriteAll(rec.Text()); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(out, formatMuted("Copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Any day of the week to show (YYYY-MM-DD, today, next-week, friday, ...)")
	cmd.Flags().IntVarP(&group, "group", "g", 0, "Customer group id (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the sensor state and attributes as JSON")
	cmd.Flags().BoolVar(&copyText, "copy", false, "Copy the menu to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

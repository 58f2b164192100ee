package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/madvognen/internal/dateutil"
	"github.com/javiermolinar/madvognen/internal/menu"
)

func (a *App) dayCmd() *cobra.Command {
	var date string
	var group int
	var noColor bool

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the menu for a single day",
		Long: `Fetch one day's menu.

Example:
  madvognen day --date tomorrow`,
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
			now := time.Now().In(client.Location())
			day, err := dateutil.ParseRelativeDate(date, now)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", date, err)
			}

			session := client.OpenSession()
			defer func() { _ = session.Close() }()

			dishes, err := session.FetchDay(cmd.Context(), group, day)
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}
			items := make([]menu.MenuItem, len(dishes))
			for i, d := range dishes {
				items[i] = menu.MenuItem(d)
			}
			dm := menu.NewDayMenu(day, items, a.config.Format(), "", errMsg)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			PrintDay(out, day.Weekday().String(), dm, PrintOpts{ShowDate: true})
			fmt.Fprintln(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "today", "Day to show (YYYY-MM-DD, today, tomorrow, monday, ...)")
	cmd.Flags().IntVarP(&group, "group", "g", 0, "Customer group id (default from config)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

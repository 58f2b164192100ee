package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/madvognen/internal/menu"
	"github.com/javiermolinar/madvognen/internal/upstream"
)

// PrintOpts configures menu printing behavior.
type PrintOpts struct {
	Width    int  // line width for the rule and truncation (0 = terminal width)
	ShowDate bool // append the formatted date to day headings
}

func (o PrintOpts) width() int {
	if o.Width > 0 {
		return o.Width
	}
	return termWidth()
}

// PrintWeek writes a week record grouped by day.
func PrintWeek(w io.Writer, rec *menu.WeekRecord, opts PrintOpts) {
	width := opts.width()
	header := fmt.Sprintf("WEEK %s: %s - %s", rec.ID(),
		rec.WeekStart.Format("Mon Jan 2"), rec.EndDate().Format("Mon Jan 2, 2006"))
	fmt.Fprintf(w, "\n  %s\n", formatHeader(header))
	fmt.Fprintln(w, rule(width))

	for i, d := range rec.Days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		PrintDay(w, menu.WeekdayName(i), d, opts)
	}

	fmt.Fprintln(w, rule(width))
	fmt.Fprintf(w, "  %s\n\n", formatMuted(fmt.Sprintf("%d of %d days available · updated %s",
		rec.AvailableDays(), menu.DaysPerWeek, rec.LastUpdated.Format("Mon 15:04"))))
}

// PrintDay writes one day's heading and dishes.
func PrintDay(w io.Writer, heading string, d menu.DayMenu, opts PrintOpts) {
	width := opts.width()
	if opts.ShowDate && d.FormattedDate != "" {
		heading += "  " + formatMuted(d.FormattedDate)
	}
	fmt.Fprintf(w, "  %s\n", formatDay(heading))

	switch {
	case d.Error != "":
		fmt.Fprintf(w, "    %s\n", formatError("✗ "+truncate(d.Error, width-6)))
	case !d.Available:
		fmt.Fprintf(w, "    %s\n", formatMuted("no menu"))
	default:
		for _, item := range d.Items {
			fmt.Fprintf(w, "    %s %s\n", formatDish("•"), truncate(string(item), width-6))
		}
	}
	if d.Note != "" {
		fmt.Fprintf(w, "    %s\n", formatNote("! "+d.Note))
	}
}

// PrintGroups writes the customer-group list, marking the configured one.
func PrintGroups(w io.Writer, groups []upstream.Group, current int) {
	for _, g := range groups {
		marker := " "
		if g.ID == current {
			marker = formatDish("*")
		}
		fmt.Fprintf(w, "  %s %5d  %s\n", marker, g.ID, g.Name)
	}
}

// PrintAppointments writes the appointment list.
func PrintAppointments(w io.Writer, list []upstream.Appointment) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No appointments.")
		return
	}
	for _, a := range list {
		when := a.Date
		if a.Time != "" {
			when += " " + a.Time
		}
		fmt.Fprintf(w, "  %s  %s\n", formatDay(when), a.Description)
		if a.Comment != "" {
			fmt.Fprintf(w, "      %s\n", formatMuted(a.Comment))
		}
	}
}

func rule(width int) string {
	return strings.Repeat("─", min(width, 74))
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

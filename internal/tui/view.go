package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/madvognen/internal/dateutil"
	"github.com/javiermolinar/madvognen/internal/menu"
)

// View renders the model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{m.renderHeader(), "", m.renderBody(), "", m.renderFooter()}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	s := m.styles
	snap := m.result.Menu()

	title := s.TitleStyle.Render("Madvognen")
	if snap.Week != nil {
		w := snap.Week
		title += " " + s.SubtitleStyle.Render(fmt.Sprintf("%s  %s - %s",
			w.ID(),
			w.WeekStart.Format("Mon Jan 2"),
			w.EndDate().Format("Mon Jan 2, 2006")))
	}

	var status string
	switch {
	case m.loading:
		status = m.spinner.View() + " " + s.SubtitleStyle.Render("updating")
	case m.hasResult:
		status = s.SubtitleStyle.Render("updated " + m.result.At.Format("15:04"))
	}
	lines := []string{title}
	if status != "" {
		lines[0] += "  " + status
	}

	if snap.Week != nil {
		if e, ok := snap.Attributes["last_error"].(string); ok && e != "" {
			lines = append(lines, s.StaleStyle.Render("! showing last known menu, update failed: "+e))
		}
	}
	if len(m.result.Sensors) >= 3 {
		next := m.result.Sensors[2]
		lines = append(lines, s.SubtitleStyle.Render("Next appointment: ")+s.DishStyle.Render(next.State))
	}

	for i, l := range lines {
		lines[i] = ansi.Truncate(l, m.width, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderBody() string {
	s := m.styles
	week := m.result.Menu().Week
	if week == nil {
		if !m.hasResult || (m.loading && m.result.Err == nil) {
			return s.EmptyStyle.Render("Fetching menu...")
		}
		msg := s.EmptyStyle.Render("No menu available")
		if m.result.Err != nil {
			msg += "\n" + s.ErrorStyle.Render(ansi.Truncate(m.result.Err.Error(), m.width, "…"))
		}
		return msg
	}

	colWidth := m.width/menu.DaysPerWeek - 1
	stacked := colWidth < minColWidth
	if stacked {
		colWidth = max(m.width-1, 1)
	}

	panels := make([]string, menu.DaysPerWeek)
	height := 0
	for i, d := range week.Days {
		lines := m.dayLines(i, d, colWidth)
		panels[i] = strings.Join(lines, "\n")
		height = max(height, len(lines))
	}

	for i, d := range week.Days {
		style := s.DayStyle
		if m.isToday(d) {
			style = s.DayTodayStyle
		}
		style = style.Width(colWidth)
		if !stacked {
			style = style.Height(height)
		}
		panels[i] = style.Render(panels[i])
	}

	if stacked {
		return lipgloss.JoinVertical(lipgloss.Left, panels...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// dayLines renders the content of one day panel.
func (m Model) dayLines(i int, d menu.DayMenu, width int) []string {
	s := m.styles
	inner := max(width-2, 1) // panel padding

	header := s.DayHeaderStyle
	if m.isToday(d) {
		header = s.DayTodayHeader
	}
	lines := []string{
		header.Render(ansi.Truncate(menu.WeekdayName(i), inner, "")),
		s.DateStyle.Render(ansi.Truncate(d.FormattedDate, inner, "")),
	}

	if len(d.Items) == 0 && d.Error == "" {
		lines = append(lines, s.EmptyStyle.Render("no menu"))
	}
	for _, item := range d.Items {
		dish := ansi.Truncate(string(item), max(inner-2, 1), "…")
		lines = append(lines, s.DishBulletStyle.Render("•")+" "+s.DishStyle.Render(dish))
	}
	if d.Note != "" {
		lines = append(lines, s.NoteStyle.Render(ansi.Truncate("! "+d.Note, inner, "…")))
	}
	if d.Error != "" {
		lines = append(lines, s.ErrorStyle.Render(ansi.Truncate("✗ "+d.Error, inner, "…")))
	}
	return lines
}

func (m Model) isToday(d menu.DayMenu) bool {
	return dateutil.SameDay(d.Date, m.now().In(d.Date.Location()))
}

func (m Model) renderFooter() string {
	s := m.styles
	keys := []string{
		s.KeyStyle.Render("r") + s.FooterStyle.Render(" refresh"),
		s.KeyStyle.Render("c") + s.FooterStyle.Render(" copy"),
		s.KeyStyle.Render("q") + s.FooterStyle.Render(" quit"),
	}
	footer := strings.Join(keys, "  ")
	if m.statusMsg != "" {
		footer += "  " + s.StatusStyle.Render(m.statusMsg)
	}
	return ansi.Truncate(footer, m.width, "")
}

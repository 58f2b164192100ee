package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/madvognen/internal/tui/theme"
)

// Minimum day column width before the view stacks days vertically.
const minColWidth = 22

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style

	DayStyle       lipgloss.Style
	DayTodayStyle  lipgloss.Style
	DayHeaderStyle lipgloss.Style
	DayTodayHeader lipgloss.Style
	DateStyle      lipgloss.Style

	DishBulletStyle lipgloss.Style
	DishStyle       lipgloss.Style
	EmptyStyle      lipgloss.Style
	NoteStyle       lipgloss.Style
	ErrorStyle      lipgloss.Style

	StaleStyle  lipgloss.Style
	FooterStyle lipgloss.Style
	KeyStyle    lipgloss.Style
	StatusStyle lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)

	panel := lipgloss.NewStyle().
		Background(p.BgHighlight).
		Foreground(p.Fg).
		Padding(0, 1).
		MarginRight(1)

	return &Styles{
		palette: p,

		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnAccent).
			Background(p.Accent).
			Padding(0, 1),
		SubtitleStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),

		DayStyle:      panel,
		DayTodayStyle: panel.Background(p.TodayBg),
		DayHeaderStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		DayTodayHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Today),
		DateStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),

		DishBulletStyle: lipgloss.NewStyle().Foreground(p.Dish),
		DishStyle:       lipgloss.NewStyle().Foreground(p.Fg),
		EmptyStyle:      lipgloss.NewStyle().Foreground(p.FgMuted).Italic(true),
		NoteStyle:       lipgloss.NewStyle().Foreground(p.Note),
		ErrorStyle:      lipgloss.NewStyle().Foreground(p.Error),

		StaleStyle: lipgloss.NewStyle().Foreground(p.Note),
		FooterStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),
		KeyStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		StatusStyle: lipgloss.NewStyle().
			Foreground(p.Today),
	}
}

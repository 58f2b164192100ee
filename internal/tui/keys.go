package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/madvognen/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "r":
		if m.loading {
			return m, setStatus("Update already running")
		}
		m.loading = true
		return m, tea.Batch(commands.Refresh(m.trigger), m.spinner.Tick)

	case "c":
		week := m.result.Menu().Week
		if week == nil {
			return m, setStatus("No menu to copy")
		}
		return m, commands.Copy(week.Text())
	}
	return m, nil
}

func setStatus(msg string) tea.Cmd {
	return func() tea.Msg {
		return commands.StatusMsgCmd{Msg: msg}
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/madvognen/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commands.UpdateStartedMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.spinner.Tick

	case commands.UpdateMsg:
		m.loading = false
		m.result = msg.Result
		m.hasResult = true
		if msg.Result.Err != nil {
			m.logger.Debug("update finished with error", zap.Error(msg.Result.Err))
		}
		return m, nil

	case commands.ErrMsg:
		m.statusMsg = "Error: " + msg.Err.Error()
		return m, commands.ClearStatusAfter(commands.StatusTimeout)

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		return m, commands.ClearStatusAfter(commands.StatusTimeout)

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		return m, nil
	}

	return m, nil
}

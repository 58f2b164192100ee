// Package commands provides TUI command constructors and message types.
package commands

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/madvognen/internal/coordinator"
)

// StatusTimeout is how long a status message stays in the footer.
const StatusTimeout = 3 * time.Second

// UpdateStartedMsg is sent when an update cycle begins.
type UpdateStartedMsg struct{}

// UpdateMsg carries the result of one update cycle.
type UpdateMsg struct {
	Result coordinator.Result
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Refresh asks the scheduler for an immediate update.
func Refresh(trigger func()) tea.Cmd {
	return func() tea.Msg {
		if trigger != nil {
			trigger()
		}
		return UpdateStartedMsg{}
	}
}

// Copy writes text to the system clipboard.
func Copy(text string) tea.Cmd {
	return copyWith(clipboard.WriteAll, text)
}

func copyWith(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		if err := write(text); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsgCmd{Msg: "Copied week menu"}
	}
}

// ClearStatusAfter clears the status message after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

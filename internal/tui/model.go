// Package tui provides the live terminal view of the weekly menu.
package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/madvognen/internal/config"
	"github.com/javiermolinar/madvognen/internal/coordinator"
	"github.com/javiermolinar/madvognen/internal/scheduler"
	"github.com/javiermolinar/madvognen/internal/tui/commands"
	"github.com/javiermolinar/madvognen/internal/tui/theme"
)

// Model is the main TUI model.
type Model struct {
	config *config.Config
	theme  *theme.Theme
	styles *Styles
	logger *zap.Logger

	// Terminal dimensions
	width  int
	height int

	spinner spinner.Model
	loading bool // an update cycle is running

	result    coordinator.Result
	hasResult bool

	statusMsg string

	trigger func()
	now     func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithTrigger sets the function the refresh key calls.
func WithTrigger(trigger func()) ModelOption {
	return func(m *Model) {
		m.trigger = trigger
	}
}

// WithNow overrides the clock used to highlight today.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ModelOption {
	return func(m *Model) {
		m.logger = logger
	}
}

// New creates a new TUI model.
func New(cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.StatusStyle

	m := &Model{
		config:  cfg,
		theme:   t,
		styles:  styles,
		logger:  zap.NewNop(),
		spinner: sp,
		loading: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Run starts the TUI. The scheduler drives coord in the background and pushes
// every result into the program; the view never calls the upstream service.
func Run(ctx context.Context, coord *coordinator.Coordinator, sched *scheduler.Scheduler, cfg *config.Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := New(cfg, WithTrigger(sched.Trigger), WithLogger(logger.Named("tui")))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := sched.Run(ctx, func(ctx context.Context) {
			p.Send(commands.UpdateStartedMsg{})
			res := coord.Update(ctx)
			if ctx.Err() != nil {
				return
			}
			p.Send(commands.UpdateMsg{Result: res})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler stopped", zap.Error(err))
		}
	}()

	_, err := p.Run()
	cancel()
	wg.Wait()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Package app is the root Bubble Tea model. It owns the screen stack and
// the lifecycle saves.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/usblord/internal/coach"
	"github.com/abhisek/usblord/internal/engine"
	"github.com/abhisek/usblord/internal/lifecycle"
	"github.com/abhisek/usblord/internal/progress"
	"github.com/abhisek/usblord/internal/router"
	"github.com/abhisek/usblord/internal/screen"
	"github.com/abhisek/usblord/internal/screens/home"
	"github.com/abhisek/usblord/internal/screens/tutorial"
	"github.com/abhisek/usblord/internal/ui/layout"
)

// Options holds the long-lived services the TUI drives.
type Options struct {
	Engine   *engine.Engine
	Progress *progress.Manager
	Hooks    *lifecycle.Hooks
	// Coach is nil when no LLM provider is configured.
	Coach  *coach.Service
	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx    context.Context
	router *router.Router
	hooks  *lifecycle.Hooks
	width  int
	height int
}

func newAppModel(ctx context.Context, opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	newTutorial := func() screen.Screen {
		return tutorial.New(opts.Engine, opts.Progress, opts.Coach, logger)
	}
	return AppModel{
		ctx:    ctx,
		router: router.New(home.New(opts.Progress.State(), newTutorial)),
		hooks:  opts.Hooks,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.hooks.Tick(), m.router.Active().Init())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	lifeCmd := m.hooks.Handle(m.ctx, msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, lifeCmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	return m, tea.Batch(lifeCmd, m.router.Update(msg))
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	// Focus reports drive the save-on-blur hook.
	v.ReportFocus = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	var hints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	hints = append(hints, layout.KeyHint{Key: "^C", Description: "Quit"})
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the TUI and blocks until it exits. Progress is saved on the
// way out, including when the process is asked to terminate.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts))

	stop := opts.Hooks.WatchSignals(ctx, func(os.Signal) { p.Quit() })
	defer stop()

	_, err := p.Run()
	opts.Hooks.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

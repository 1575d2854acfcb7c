package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/progress"
	"github.com/abhisek/usblord/internal/router"
	"github.com/abhisek/usblord/internal/screen"
	"github.com/abhisek/usblord/internal/ui/components"
	"github.com/abhisek/usblord/internal/ui/layout"
	"github.com/abhisek/usblord/internal/ui/theme"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	state    *progress.State
	tutorial func() screen.Screen
	menu     components.Menu
	stats    progress.Stats
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ router.Resumer = (*HomeScreen)(nil)
)

// New creates the home screen. tutorial builds the question screen each
// time the learner starts playing.
func New(state *progress.State, tutorial func() screen.Screen) *HomeScreen {
	h := &HomeScreen{state: state, tutorial: tutorial}
	h.refresh()
	return h
}

func (h *HomeScreen) refresh() {
	h.stats = h.state.Stats()

	start := "START PROTOCOLS"
	if h.stats.Question > 1 || h.stats.Completed > 0 {
		start = "RESUME PROTOCOLS"
	}
	selected := h.menu.Selected
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: start, Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: h.tutorial()} }
		}},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	h.menu.Selected = selected
}

func (h *HomeScreen) Init() tea.Cmd { return nil }

// Resume picks up progress made on the tutorial screen.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Title() string { return "Main Terminal" }

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height+6)
	cw := components.ContentWidth(width)

	sections := []string{renderBanner(cw, compact)}
	if !compact {
		sections = append(sections, renderPlug(cw, h.stats.Completed > 0))
	}
	sections = append(sections,
		renderStats(h.stats, cw),
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(h.menu.View(24)),
	)
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func renderStats(st progress.Stats, cw int) string {
	line := fmt.Sprintf("%s   %s   %s",
		theme.Value.Render(fmt.Sprintf("PROTOCOL %03d/%d", st.Question, st.Total)),
		theme.Value.Render(fmt.Sprintf("CHAPTER %02d/%02d", st.Chapter, bank.MaxChapters)),
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("ACCESS %04d", st.Score)),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Render(line)
}

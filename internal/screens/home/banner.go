package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/usblord/internal/ui/theme"
)

const bannerArt = `██╗   ██╗███████╗██████╗     ██╗      ██████╗ ██████╗ ██████╗
██║   ██║██╔════╝██╔══██╗    ██║     ██╔═══██╗██╔══██╗██╔══██╗
██║   ██║███████╗██████╔╝    ██║     ██║   ██║██████╔╝██║  ██║
██║   ██║╚════██║██╔══██╗    ██║     ██║   ██║██╔══██╗██║  ██║
╚██████╔╝███████║██████╔╝    ███████╗╚██████╔╝██║  ██║██████╔╝
 ╚═════╝ ╚══════╝╚═════╝     ╚══════╝ ╚═════╝ ╚═╝  ╚═╝╚═════╝`

const bannerCompact = "U · S · B   L · O · R · D"

const plugArt = `  ┌───────┐
  │ ▪   ▪ │
──┤       ├══
  └───────┘`

// renderBanner returns the title art, or a one-line fallback when the
// art would not fit.
func renderBanner(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := bannerArt
	if compact || cw < lipgloss.Width(bannerArt) {
		art = bannerCompact
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(style.Render(art))
}

// renderPlug draws the mascot; it glows green once anything is mastered.
func renderPlug(cw int, active bool) string {
	fg := theme.TextDim
	if active {
		fg = theme.Secondary
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(fg).Render(plugArt)
}

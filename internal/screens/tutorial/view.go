package tutorial

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/progress"
	"github.com/abhisek/usblord/internal/ui/components"
	"github.com/abhisek/usblord/internal/ui/layout"
	"github.com/abhisek/usblord/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch {
	case s.confirming:
		body = renderResetConfirm(cw)
	case s.mode == modeUnlock:
		body = renderUnlock(s.unlock, cw)
	case s.mode == modeComplete:
		body = renderComplete(s, cw)
	default:
		body = s.renderQuestion(cw, layout.IsCompact(width, height))
	}

	sections := []string{renderStatsBar(s.stats, cw), body}
	if s.notice != nil {
		sections = append(sections, renderMessage(s.notice, cw))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n\n"))
}

func renderStatsBar(st progress.Stats, cw int) string {
	field := func(label, value string) string {
		return theme.Label.Render(label+" ") + theme.Value.Render(value)
	}
	line := strings.Join([]string{
		field("PROTOCOL", fmt.Sprintf("%03d", st.Question)),
		field("CHAPTER", fmt.Sprintf("%02d", st.Chapter)),
		field("ACCESS", fmt.Sprintf("%04d", st.Score)),
		field("MASTERED", fmt.Sprintf("%03d", st.Completed)),
	}, "   ")

	bar := components.ProgressBar{
		Percent: components.BarFill(st.Completed, st.Total),
		Width:   cw,
	}
	return line + "\n" + bar.View()
}

func (s *Screen) renderQuestion(cw int, compact bool) string {
	if s.question == nil {
		return theme.Subtitle.Width(cw).Render("SYSTEM READY - AWAITING COMMANDS...")
	}

	var b strings.Builder

	title := theme.Title.Render(s.chapter.Character + " " + s.chapter.Title)
	if s.completed {
		title += "  " + theme.Correct.Render("✅ MASTERED")
	}
	b.WriteString(title)
	b.WriteString("\n")

	if !compact && bank.IndexInChapter(s.number) == 0 && s.chapter.Story != "" {
		b.WriteString(theme.Label.Width(cw).Render(s.chapter.Story))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(components.Card(theme.Body.Render(s.question.Text), cw))
	b.WriteString("\n")
	if !compact && s.question.Reasoning != "" {
		b.WriteString(theme.Label.Width(cw).Render("📖 USB Lord Protocol Briefing: " + s.question.Reasoning))
		b.WriteString("\n")
	}
	if s.showHint {
		b.WriteString(theme.Hint.Width(cw).Render("💡 SYSTEM HINT: " + s.question.Hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	s.editor.SetWidth(cw)
	b.WriteString(s.editor.View())

	if s.feedback != nil {
		b.WriteString("\n\n")
		b.WriteString(renderMessage(s.feedback, cw))
	}
	switch {
	case s.coachPending:
		b.WriteString("\n\n")
		b.WriteString(theme.Label.Render("🤖 Coach is thinking..."))
	case s.nudge != "":
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(cw).Render("🤖 " + s.nudge))
	}
	return b.String()
}

func renderMessage(m *message, cw int) string {
	style := theme.Body
	switch m.tone {
	case toneSuccess:
		style = theme.Correct
	case toneError:
		style = theme.Incorrect
	}
	lines := make([]string, len(m.lines))
	for i, l := range m.lines {
		if i == 0 {
			lines[i] = style.Render(l)
			continue
		}
		lines[i] = lipgloss.NewStyle().Foreground(theme.Primary).Render(l)
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func renderUnlock(ch *bank.Chapter, cw int) string {
	if ch == nil {
		return ""
	}
	content := strings.Join([]string{
		ch.Character,
		theme.Title.Render(fmt.Sprintf("⚡ CHAPTER %02d UNLOCKED ⚡", ch.Number)),
		theme.Value.Render(ch.Title),
		"",
		theme.Body.Width(cw - 8).Render(ch.Story),
		"",
		components.Button("INITIALIZE PROTOCOLS", true, false, 26),
	}, "\n")
	return theme.Highlight.Width(cw).Render(content)
}

func renderComplete(s *Screen, cw int) string {
	sum := s.summary
	stats := strings.Join([]string{
		theme.Label.Render("FINAL ACCESS LEVEL: ") + theme.Value.Render(fmt.Sprintf("%d", sum.Score)),
		theme.Label.Render("PROTOCOLS MASTERED: ") + theme.Value.Render(fmt.Sprintf("%d/%d (%.1f%%)", sum.Completed, sum.Total, sum.Percent)),
		theme.Label.Render("RUNTIME: ") + theme.Value.Render(fmt.Sprintf("%d minutes", sum.Minutes())),
	}, "\n")

	content := strings.Join([]string{
		"👑",
		theme.Title.Render("⚡ USB LORD MASTERY COMPLETE ⚡"),
		"",
		components.Card(stats, cw-8),
		"",
		theme.Subtitle.Render("Ctrl+E export record · Ctrl+R restart"),
	}, "\n")
	return theme.Highlight.Width(cw).Render(content)
}

func renderResetConfirm(cw int) string {
	content := theme.Incorrect.Render(progress.ResetWarning) +
		"\n\n" +
		theme.Body.Render("[Y] Proceed    [N] Abort")
	return theme.Highlight.BorderForeground(theme.Error).Width(cw).Render(content)
}

// Package tutorial is the question screen. It is the display the engine
// and progress manager render into.
package tutorial

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/coach"
	"github.com/abhisek/usblord/internal/engine"
	"github.com/abhisek/usblord/internal/progress"
	"github.com/abhisek/usblord/internal/screen"
	"github.com/abhisek/usblord/internal/ui/layout"
)

type mode int

const (
	modeQuestion mode = iota
	modeUnlock
	modeComplete
)

type tone int

const (
	toneInfo tone = iota
	toneSuccess
	toneError
)

// message is a short styled block under the editor.
type message struct {
	tone  tone
	lines []string
}

// Screen shows one question at a time with a code editor.
type Screen struct {
	engine   *engine.Engine
	progress *progress.Manager
	coach    *coach.Service
	logger   *zap.Logger
	now      func() time.Time

	editor textarea.Model

	mode      mode
	chapter   *bank.Chapter
	question  *bank.Question
	number    int
	completed bool
	unlock    *bank.Chapter
	summary   engine.Summary
	stats     progress.Stats

	showHint   bool
	feedback   *message
	notice     *message
	lastFailed bool
	lastCode   string

	coachPending bool
	nudge        string

	confirming bool
	resetToken progress.ResetToken

	// savedAt is written from whichever goroutine saves.
	savedAt   atomic.Int64
	flashSeen int64
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
	_ engine.Display         = (*Screen)(nil)
)

// New builds the screen and registers it as the display of eng and mgr.
// c may be nil when no coach is configured.
func New(eng *engine.Engine, mgr *progress.Manager, c *coach.Service, logger *zap.Logger) *Screen {
	if logger == nil {
		logger = zap.NewNop()
	}
	ed := textarea.New()
	ed.Placeholder = "// Write your JavaScript here..."
	ed.ShowLineNumbers = true
	ed.SetHeight(6)

	s := &Screen{
		engine:   eng,
		progress: mgr,
		coach:    c,
		logger:   logger.Named("tutorial"),
		now:      time.Now,
		editor:   ed,
	}
	eng.SetDisplay(s)
	mgr.SetDisplay(s)
	mgr.SetRefresher(eng)
	return s
}

func (s *Screen) Init() tea.Cmd {
	s.engine.Show()
	return s.editor.Focus()
}

func (s *Screen) Title() string {
	switch s.mode {
	case modeUnlock:
		return "Chapter Unlocked"
	case modeComplete:
		return "Mastery Complete"
	}
	return fmt.Sprintf("Protocol %03d", s.number)
}

// Status shows the save indicator for a moment after each save.
func (s *Screen) Status() string {
	at := s.savedAt.Load()
	if at == 0 || s.now().Sub(time.UnixMilli(at)) > saveFlashDuration {
		return ""
	}
	return "● SAVED"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Proceed"},
			{Key: "N", Description: "Abort"},
		}
	}
	switch s.mode {
	case modeUnlock:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Initialize protocols"},
			{Key: "Esc", Description: "Back"},
		}
	case modeComplete:
		return []layout.KeyHint{
			{Key: "^E", Description: "Export"},
			{Key: "^R", Description: "Restart"},
			{Key: "PgUp", Description: "Prev"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "^S", Description: "Submit"},
		{Key: "PgUp/PgDn", Description: "Prev/Next"},
		{Key: "^T", Description: "Hint"},
	}
	if s.coachAvailable() {
		hints = append(hints, layout.KeyHint{Key: "^G", Description: "Coach"})
	}
	return append(hints,
		layout.KeyHint{Key: "^O/^L", Description: "Save/Load"},
		layout.KeyHint{Key: "^E", Description: "Export"},
		layout.KeyHint{Key: "^R", Description: "Reset"},
	)
}

// RenderQuestion shows a fresh question: the editor, feedback and hint
// are cleared.
func (s *Screen) RenderQuestion(ch *bank.Chapter, q *bank.Question, number int, completed bool) {
	s.mode = modeQuestion
	s.chapter, s.question, s.number, s.completed = ch, q, number, completed
	s.unlock = nil
	s.showHint = false
	s.feedback = nil
	s.lastFailed = false
	s.nudge = ""
	s.editor.Reset()
}

func (s *Screen) RenderChapterUnlock(ch *bank.Chapter) {
	s.mode = modeUnlock
	s.unlock = ch
	s.feedback = nil
}

func (s *Screen) RenderGameComplete(sum engine.Summary) {
	s.mode = modeComplete
	s.summary = sum
	s.feedback = nil
}

func (s *Screen) RenderStats(st progress.Stats) {
	s.stats = st
}

func (s *Screen) PulseSaveIndicator() {
	s.savedAt.Store(s.now().UnixMilli())
}

func (s *Screen) coachAvailable() bool {
	return s.coach != nil && s.lastFailed && !s.coachPending
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		cmd = s.handleKey(msg)
	case coachPollMsg:
		cmd = s.pollCoach()
	case saveFlashDoneMsg:
		// Re-render only.
	default:
		if s.mode == modeQuestion && !s.confirming {
			s.editor, cmd = s.editor.Update(msg)
		}
	}
	return s, tea.Batch(cmd, s.flashCmd())
}

// flashCmd schedules the indicator to clear after a save it has not seen.
func (s *Screen) flashCmd() tea.Cmd {
	at := s.savedAt.Load()
	if at == s.flashSeen {
		return nil
	}
	s.flashSeen = at
	return tea.Tick(saveFlashDuration, func(time.Time) tea.Msg { return saveFlashDoneMsg{} })
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	ctx := context.Background()
	key := msg.String()

	if s.confirming {
		switch key {
		case "y", "Y":
			s.confirming = false
			err := s.progress.ConfirmReset(ctx, s.resetToken)
			switch {
			case errors.Is(err, progress.ErrResetNotPersisted):
				s.notice = &message{tone: toneError, lines: []string{
					"🔄 SYSTEM RESET COMPLETE",
					"⚠️ Saved progress could not be deleted and may return on the next load.",
				}}
				return nil
			case err != nil:
				s.notice = &message{tone: toneError, lines: []string{err.Error()}}
				return nil
			}
			s.notice = &message{tone: toneInfo, lines: []string{"🔄 SYSTEM RESET COMPLETE"}}
		case "n", "N":
			s.confirming = false
			s.progress.CancelReset()
			s.notice = nil
		}
		return nil
	}

	switch key {
	case "ctrl+o":
		s.progress.Save(ctx)
		s.notice = &message{tone: toneInfo, lines: []string{"💾 Progress saved"}}
		return nil
	case "ctrl+l":
		if s.progress.Load(ctx) {
			s.notice = &message{tone: toneSuccess, lines: []string{"⚡ Progress Restored! ⚡"}}
		} else {
			s.notice = &message{tone: toneError, lines: []string{"❌ No saved progress found."}}
		}
		return nil
	case "ctrl+e":
		path, err := s.progress.Export(ctx)
		if err != nil {
			s.logger.Warn("export failed", zap.Error(err))
			s.notice = &message{tone: toneError, lines: []string{"❌ EXPORT FAILED", err.Error()}}
			return nil
		}
		s.notice = &message{tone: toneSuccess, lines: []string{"📤 RECORD EXPORTED", path}}
		return nil
	case "ctrl+r":
		s.resetToken = s.progress.RequestReset()
		s.confirming = true
		return nil
	case "pgup":
		s.notice = nil
		s.engine.Prev(ctx)
		return nil
	}

	switch s.mode {
	case modeUnlock:
		if key == "enter" {
			s.engine.ContinueToChapter()
		}
		return nil
	case modeComplete:
		return nil
	}

	switch key {
	case "ctrl+s":
		return s.submit(ctx)
	case "pgdown":
		if !s.engine.CanAdvance() {
			s.notice = &message{tone: toneInfo, lines: []string{"🔒 Validate this protocol to unlock the next one"}}
			return nil
		}
		s.notice = nil
		s.engine.Next(ctx)
		return nil
	case "ctrl+t":
		s.showHint = !s.showHint
		return nil
	case "ctrl+g":
		return s.askCoach(ctx)
	}

	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return cmd
}

func (s *Screen) submit(ctx context.Context) tea.Cmd {
	code := s.editor.Value()
	res := s.engine.Submit(ctx, code)
	s.nudge = ""
	s.notice = nil

	switch res.Outcome {
	case engine.OutcomeValidated:
		s.completed = true
		s.lastFailed = false
		s.feedback = &message{tone: toneSuccess, lines: []string{
			"⚡ PROTOCOL VALIDATED ⚡",
			fmt.Sprintf("+%d ACCESS POINTS", res.Awarded),
		}}
	case engine.OutcomeConfirmed:
		s.lastFailed = false
		s.feedback = &message{tone: toneSuccess, lines: []string{"✅ PROTOCOL CONFIRMED"}}
	case engine.OutcomeFailed:
		s.lastFailed = true
		s.lastCode = code
		s.feedback = &message{tone: toneError, lines: []string{
			"❌ VALIDATION FAILED",
			"Expected: " + res.Solution,
		}}
	}
	return nil
}

func (s *Screen) askCoach(ctx context.Context) tea.Cmd {
	if !s.coachAvailable() {
		return nil
	}
	s.coachPending = true
	s.nudge = ""
	s.coach.Request(ctx, coach.Input{Number: s.number, Question: s.question, Code: s.lastCode})
	return coachPoll()
}

func coachPoll() tea.Cmd {
	return tea.Tick(coachPollInterval, func(time.Time) tea.Msg { return coachPollMsg{} })
}

func (s *Screen) pollCoach() tea.Cmd {
	if s.coach == nil || !s.coachPending {
		return nil
	}
	n, ok := s.coach.Consume()
	if !ok {
		return coachPoll()
	}
	s.coachPending = false
	if n.Number != s.number || s.mode != modeQuestion {
		return nil
	}
	if n.Err != nil {
		s.nudge = "Coach is offline right now. Try the hint with Ctrl+T."
		return nil
	}
	s.nudge = n.Text
	return nil
}

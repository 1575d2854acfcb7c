// Package engine drives question navigation, answer validation and scoring.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/progress"
	"github.com/abhisek/usblord/internal/store"
)

// Reward is the score awarded for the first correct answer to a question.
const Reward = 100

// Outcome classifies a submission.
type Outcome int

const (
	// OutcomeNoQuestion means there was no current question to answer.
	OutcomeNoQuestion Outcome = iota
	// OutcomeValidated is a first-time correct answer.
	OutcomeValidated
	// OutcomeConfirmed is a correct answer to an already completed question.
	OutcomeConfirmed
	// OutcomeFailed is an answer the acceptance rule rejected.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValidated:
		return "validated"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeFailed:
		return "failed"
	}
	return "no-question"
}

// Result describes what a submission did.
type Result struct {
	Outcome Outcome
	// Awarded is the score added by this submission.
	Awarded int
	// Solution is the reference answer, set only on failure.
	Solution string
	// Question is the global number of the question answered.
	Question int
}

// Summary is what the game-complete screen shows.
type Summary struct {
	Score     int
	Completed int
	Total     int
	Percent   float64
	Elapsed   time.Duration
}

// Minutes returns whole elapsed minutes.
func (s Summary) Minutes() int {
	if s.Elapsed < 0 {
		return 0
	}
	return int(s.Elapsed / time.Minute)
}

// Display renders engine state. Calls are fire-and-forget.
type Display interface {
	progress.Display
	RenderQuestion(ch *bank.Chapter, q *bank.Question, number int, completed bool)
	RenderChapterUnlock(ch *bank.Chapter)
	RenderGameComplete(s Summary)
	RenderStats(s progress.Stats)
}

// Saver persists the live state.
type Saver interface {
	Save(ctx context.Context) progress.Record
}

// Engine is the navigation and scoring state machine. It mutates the
// shared progress.State and persists through a Saver after every
// meaningful change.
type Engine struct {
	bank      *bank.Bank
	state     *progress.State
	saver     Saver
	attempts  store.AttemptRepo
	sessionID string
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	display Display
}

// Option configures an Engine.
type Option func(*Engine)

// WithAttemptLog records every submission to repo.
func WithAttemptLog(repo store.AttemptRepo) Option {
	return func(e *Engine) { e.attempts = repo }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides the time source used for elapsed time and attempts.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSessionID tags attempts with id instead of a generated one.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.sessionID = id }
}

// New creates an Engine over b and state.
func New(b *bank.Bank, state *progress.State, saver Saver, opts ...Option) *Engine {
	e := &Engine{
		bank:      b,
		state:     state,
		saver:     saver,
		sessionID: uuid.NewString(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("engine")
	return e
}

// SetDisplay sets where state is rendered. A nil display disables rendering.
func (e *Engine) SetDisplay(d Display) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.display = d
}

func (e *Engine) currentDisplay() Display {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display
}

// SessionID identifies this run in the attempt log.
func (e *Engine) SessionID() string { return e.sessionID }

// CurrentQuestion returns the current chapter, question and its global
// number. It returns false when the bank has no such question, which
// means the content is exhausted.
func (e *Engine) CurrentQuestion() (*bank.Chapter, *bank.Question, int, bool) {
	n, chapter := e.state.Position()
	ch, q, ok := e.bank.Question(chapter, n)
	return ch, q, n, ok
}

// CanAdvance reports whether forward navigation is unlocked, which holds
// exactly when the current question is completed.
func (e *Engine) CanAdvance() bool {
	n, _ := e.state.Position()
	return e.state.IsCompleted(n)
}

// Submit checks code against the current question. Correct answers mark
// the question completed, award Reward the first time only, and save.
func (e *Engine) Submit(ctx context.Context, code string) Result {
	code = strings.TrimSpace(code)
	_, q, n, ok := e.CurrentQuestion()
	if !ok {
		return Result{Outcome: OutcomeNoQuestion}
	}

	res := Result{Question: n}
	if q.Accepts(code) {
		if e.state.Complete(n, Reward) {
			res.Outcome = OutcomeValidated
			res.Awarded = Reward
		} else {
			res.Outcome = OutcomeConfirmed
		}
		e.saver.Save(ctx)
	} else {
		res.Outcome = OutcomeFailed
		res.Solution = q.Solution
	}

	e.logger.Debug("answer submitted",
		zap.Int("question", n),
		zap.Stringer("outcome", res.Outcome),
	)
	e.recordAttempt(ctx, n, res.Outcome, code)

	if d := e.currentDisplay(); d != nil {
		d.RenderStats(e.state.Stats())
	}
	return res
}

func (e *Engine) recordAttempt(ctx context.Context, n int, o Outcome, code string) {
	if e.attempts == nil {
		return
	}
	err := e.attempts.AppendAttempt(ctx, store.Attempt{
		Timestamp:  e.now(),
		SessionID:  e.sessionID,
		Question:   n,
		Outcome:    o.String(),
		CodeLength: len(code),
	})
	if err != nil {
		e.logger.Warn("record attempt", zap.Int("question", n), zap.Error(err))
	}
}

// Next moves forward one question and saves. Crossing into a chapter the
// bank holds shows its unlock screen; crossing into one it lacks, or
// stepping past the last question, shows the completion summary.
func (e *Engine) Next(ctx context.Context) {
	n, moved := e.state.Step(1)
	if !moved {
		e.showComplete()
		return
	}
	e.saver.Save(ctx)

	if n > 1 && bank.IndexInChapter(n) == 0 {
		if ch, ok := e.bank.Chapter(bank.ChapterOf(n)); ok {
			if d := e.currentDisplay(); d != nil {
				d.RenderChapterUnlock(ch)
				d.RenderStats(e.state.Stats())
			}
			return
		}
	}
	e.Show()
}

// Prev moves back one question and saves. At question 1 it does nothing.
func (e *Engine) Prev(ctx context.Context) {
	if _, moved := e.state.Step(-1); !moved {
		return
	}
	e.saver.Save(ctx)
	e.Show()
}

// ContinueToChapter leaves the chapter unlock screen. Position was already
// advanced by Next.
func (e *Engine) ContinueToChapter() {
	e.Show()
}

// Show renders the current question, or the completion summary when there
// is none, followed by the stats.
func (e *Engine) Show() {
	d := e.currentDisplay()
	if d == nil {
		return
	}
	ch, q, n, ok := e.CurrentQuestion()
	if !ok {
		e.showComplete()
		return
	}
	d.RenderQuestion(ch, q, n, e.state.IsCompleted(n))
	d.RenderStats(e.state.Stats())
}

func (e *Engine) showComplete() {
	d := e.currentDisplay()
	if d == nil {
		return
	}
	d.RenderGameComplete(e.Summary())
	d.RenderStats(e.state.Stats())
}

// Summary returns the completion summary values.
func (e *Engine) Summary() Summary {
	st := e.state.Stats()
	return Summary{
		Score:     st.Score,
		Completed: st.Completed,
		Total:     st.Total,
		Percent:   float64(st.Completed) / float64(st.Total) * 100,
		Elapsed:   e.now().Sub(e.state.StartTime()),
	}
}

package progress

import (
	"sync"
	"time"

	"github.com/abhisek/usblord/internal/bank"
)

// Stats is the read-only view the stats panel renders.
type Stats struct {
	Question  int
	Chapter   int
	Score     int
	Completed int
	Total     int
}

// State is the live learner state. A single mutex guards the whole
// (question, chapter, score, completed) tuple so every method observes and
// leaves a consistent value. The chapter is always derived from the
// question; no caller sets it directly.
type State struct {
	mu        sync.Mutex
	question  int
	chapter   int
	score     int
	completed map[int]struct{}
	startTime time.Time
}

// NewState returns the default state: question 1, chapter 1, score 0,
// nothing completed, started at now.
func NewState(now time.Time) *State {
	s := &State{}
	s.resetLocked(now)
	return s
}

func (s *State) resetLocked(now time.Time) {
	s.question = 1
	s.chapter = 1
	s.score = 0
	s.completed = make(map[int]struct{})
	s.startTime = now
}

// Snapshot returns a record of the current state. SavedAt and Version are
// left for the caller to stamp.
func (s *State) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Record{
		CurrentQuestion:    s.question,
		CurrentChapter:     s.chapter,
		Score:              s.score,
		CompletedQuestions: completedList(s.completed),
		GameStartTime:      s.startTime.UnixMilli(),
	}
}

// Position returns the current question and chapter.
func (s *State) Position() (question, chapter int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question, s.chapter
}

// Stats returns the values shown in the stats panel.
func (s *State) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Question:  s.question,
		Chapter:   s.chapter,
		Score:     s.score,
		Completed: len(s.completed),
		Total:     bank.TotalQuestions,
	}
}

// StartTime returns when the current game started.
func (s *State) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}

// SetQuestion moves to question n, clamped to [1, TotalQuestions].
func (s *State) SetQuestion(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setQuestionLocked(clamp(n))
}

// Step moves the question by delta if the result stays within
// [1, TotalQuestions]. It reports the resulting question and whether it
// moved.
func (s *State) Step(delta int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.question + delta
	if n < 1 || n > bank.TotalQuestions {
		return s.question, false
	}
	s.setQuestionLocked(n)
	return n, true
}

func (s *State) setQuestionLocked(n int) {
	s.question = n
	s.chapter = bank.ChapterOf(n)
}

// Complete marks question n as completed. On the first completion it adds
// reward to the score and returns true; later calls change nothing.
func (s *State) Complete(n, reward int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.completed[n]; ok {
		return false
	}
	s.completed[n] = struct{}{}
	s.score += reward
	return true
}

// IsCompleted reports whether question n has been completed.
func (s *State) IsCompleted(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.completed[n]
	return ok
}

// Restore overwrites the live state from rec. The chapter is re-derived
// from the question. A zero GameStartTime keeps the current start time.
func (s *State) Restore(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setQuestionLocked(clamp(rec.CurrentQuestion))
	s.score = rec.Score
	s.completed = make(map[int]struct{}, len(rec.CompletedQuestions))
	for _, n := range rec.CompletedQuestions {
		s.completed[n] = struct{}{}
	}
	if rec.GameStartTime > 0 {
		s.startTime = time.UnixMilli(rec.GameStartTime)
	}
}

// Reset returns the state to its defaults with a new start time.
func (s *State) Reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(now)
}

func clamp(n int) int {
	switch {
	case n < 1:
		return 1
	case n > bank.TotalQuestions:
		return bank.TotalQuestions
	}
	return n
}

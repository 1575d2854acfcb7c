package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/usblord/internal/bank"
)

func TestNewStateDefaults(t *testing.T) {
	now := time.UnixMilli(42_000)
	s := NewState(now)

	rec := s.Snapshot()
	assert.Equal(t, 1, rec.CurrentQuestion)
	assert.Equal(t, 1, rec.CurrentChapter)
	assert.Zero(t, rec.Score)
	assert.NotNil(t, rec.CompletedQuestions)
	assert.Empty(t, rec.CompletedQuestions)
	assert.Equal(t, int64(42_000), rec.GameStartTime)
}

func TestStepKeepsChapterInSync(t *testing.T) {
	s := NewState(time.Now())

	for want := 2; want <= bank.TotalQuestions; want++ {
		q, moved := s.Step(1)
		assert.True(t, moved)
		assert.Equal(t, want, q)
		_, ch := s.Position()
		assert.Equal(t, (q+9)/10, ch)
	}

	q, moved := s.Step(1)
	assert.False(t, moved)
	assert.Equal(t, bank.TotalQuestions, q)

	for q > 1 {
		q, _ = s.Step(-1)
		_, ch := s.Position()
		assert.Equal(t, (q+9)/10, ch)
	}
	_, moved = s.Step(-1)
	assert.False(t, moved)
}

func TestSetQuestionClamps(t *testing.T) {
	s := NewState(time.Now())

	s.SetQuestion(0)
	q, ch := s.Position()
	assert.Equal(t, 1, q)
	assert.Equal(t, 1, ch)

	s.SetQuestion(500)
	q, ch = s.Position()
	assert.Equal(t, 100, q)
	assert.Equal(t, 10, ch)

	s.SetQuestion(21)
	_, ch = s.Position()
	assert.Equal(t, 3, ch)
}

func TestCompleteAwardsOnce(t *testing.T) {
	s := NewState(time.Now())

	assert.True(t, s.Complete(3, 100))
	assert.False(t, s.Complete(3, 100))
	assert.True(t, s.IsCompleted(3))
	assert.False(t, s.IsCompleted(4))

	st := s.Stats()
	assert.Equal(t, 100, st.Score)
	assert.Equal(t, 1, st.Completed)
	assert.Equal(t, bank.TotalQuestions, st.Total)
}

func TestCompleteConcurrent(t *testing.T) {
	s := NewState(time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Complete(7, 100)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, s.Stats().Score)
}

func TestRestoreRederivesChapter(t *testing.T) {
	s := NewState(time.UnixMilli(1))
	s.Restore(Record{CurrentQuestion: 35, CurrentChapter: 1, Score: 500, CompletedQuestions: []int{1, 2, 3, 4, 5}})

	q, ch := s.Position()
	assert.Equal(t, 35, q)
	assert.Equal(t, 4, ch)
	assert.Equal(t, 500, s.Stats().Score)
	assert.Equal(t, time.UnixMilli(1), s.StartTime(), "zero start time keeps the current one")
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		v  string
		ok bool
	}{
		{"2.0", true},
		{"2.3", true},
		{"2.0.1", true},
		{"", false},
		{"1.0", false},
		{"3.0", false},
		{"latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.v, func(t *testing.T) {
			err := checkVersion(tt.v)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

package coach

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/llm"
)

var question = &bank.Question{
	ID:       "device-online",
	Title:    "Device Online",
	Text:     "Declare a boolean named isOnline set to true.",
	Hint:     "Booleans are true or false without quotes.",
	Solution: "let isOnline = true;",
}

func waitConsume(t *testing.T, s *Service) Nudge {
	t.Helper()
	var n Nudge
	require.Eventually(t, func() bool {
		var ok bool
		n, ok = s.Consume()
		return ok
	}, time.Second, 5*time.Millisecond)
	return n
}

func TestRequestAndConsume(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"nudge":"  Drop the quotes around true.  "}`)})
	s := NewService(mock, DefaultConfig(), nil)

	_, ok := s.Consume()
	assert.False(t, ok)

	s.Request(context.Background(), Input{Number: 8, Question: question, Code: `let isOnline = "true";`})
	n := waitConsume(t, s)
	require.NoError(t, n.Err)
	assert.Equal(t, Nudge{Number: 8, Text: "Drop the quotes around true."}, n)

	_, ok = s.Consume()
	assert.False(t, ok, "result is consumed once")

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, NudgeSchema, calls[0].Schema)
	msg := calls[0].Messages[0].Content
	assert.Contains(t, msg, `let isOnline = "true";`)
	assert.Contains(t, msg, question.Hint)
	assert.NotContains(t, msg, question.Solution)
}

func TestProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	s := NewService(mock, DefaultConfig(), nil)

	s.Request(context.Background(), Input{Number: 1, Question: question})
	n := waitConsume(t, s)
	assert.Empty(t, n.Text)
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, n.Err, &unavailable)
}

func TestEmptyNudgeIsAnError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"nudge":"   "}`)})
	s := NewService(mock, DefaultConfig(), nil)

	s.Request(context.Background(), Input{Number: 1, Question: question})
	assert.ErrorContains(t, waitConsume(t, s).Err, "empty nudge")
}

func TestMissingQuestion(t *testing.T) {
	s := NewService(llm.NewMockProvider(), DefaultConfig(), nil)
	s.Request(context.Background(), Input{Number: 30})
	assert.Error(t, waitConsume(t, s).Err)
}

func TestEmptyCodePrompt(t *testing.T) {
	msg := buildUserMessage(Input{Number: 3, Question: question, Code: "  "})
	assert.Contains(t, msg, "(empty)")
	assert.Contains(t, msg, "Question 3: Device Online")
}

func TestAskIsSynchronous(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"nudge":"Check the semicolon."}`)})
	s := NewService(mock, DefaultConfig(), nil)

	text, err := s.Ask(context.Background(), Input{Number: 2, Question: question, Code: "let x = 1"})
	require.NoError(t, err)
	assert.Equal(t, "Check the semicolon.", text)

	_, ok := s.Consume()
	assert.False(t, ok, "Ask leaves the background slot alone")
}

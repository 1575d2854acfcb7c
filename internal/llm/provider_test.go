package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nudgeSchema = &Schema{
	Name: "test-nudge",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"nudge": map[string]any{"type": "string"}},
		"required":             []string{"nudge"},
		"additionalProperties": false,
	},
}

func TestMockProviderReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	first, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "one"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(first.Content))
	assert.Equal(t, 10, first.Usage.InputTokens)
	assert.Equal(t, "end", first.StopReason)

	second, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "two"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(second.Content))

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "two", calls[1].Messages[0].Content)
}

func TestMockProviderExhausted(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
}

func TestMockProviderScriptedError(t *testing.T) {
	boom := errors.New("boom")
	mock := NewMockProvider(MockResponse{Err: boom})
	_, err := mock.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)
}

func TestMockProviderValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"other":1}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: nudgeSchema})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestFinishReportsTruncation(t *testing.T) {
	_, err := finish(Request{Schema: nudgeSchema}, json.RawMessage(`{"nud`), Usage{}, "m", stopMaxTokens)
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)

	resp, err := finish(Request{}, json.RawMessage(`plain`), Usage{}, "m", stopMaxTokens)
	require.NoError(t, err)
	assert.Equal(t, "max_tokens", resp.StopReason)
}

func TestPurpose(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "nudge", PurposeFrom(WithPurpose(context.Background(), "nudge")))
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		provider, name, want string
	}{
		{ProviderAnthropic, "claude-haiku", "claude-haiku-4-5-20251001"},
		{ProviderOpenAI, "gpt-mini", "gpt-4.1-mini"},
		{ProviderGemini, "gemini-flash", "gemini-2.5-flash"},
		{ProviderGemini, "gemini-2.0-flash", "gemini-2.0-flash"},
		{ProviderOpenRouter, "claude-haiku", "claude-haiku"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveModel(tt.provider, tt.name), "%s/%s", tt.provider, tt.name)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4.1-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.4+1.6, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.Nil(t, LookupCost("no-such-model"))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&ErrRateLimit{}))
	assert.True(t, Retryable(&ErrProviderUnavailable{}))
	assert.True(t, Retryable(&ErrInvalidResponse{Err: errors.New("x")}))
	assert.False(t, Retryable(&ErrMaxTokensExceeded{}))
	assert.False(t, Retryable(context.Canceled))
}

func TestClassifyStatus(t *testing.T) {
	var rl *ErrRateLimit
	assert.ErrorAs(t, classifyStatus(429, errors.New("slow down")), &rl)
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, classifyStatus(503, errors.New("down")), &unavailable)
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4.1-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func chatServer(t *testing.T, status int, payload any, seen *map[string]any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]any
	url := chatServer(t, http.StatusOK, chatCompletion(`{"nudge":"use ==="}`, "stop"), &body)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-mini", BaseURL: url})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		System:   "coach",
		Messages: []Message{{Role: RoleUser, Content: "help"}},
		Schema:   nudgeSchema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nudge":"use ==="}`, string(resp.Content))
	assert.Equal(t, 65, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)

	assert.Equal(t, "gpt-4.1-mini", body["model"])
	msgs, _ := body["messages"].([]any)
	assert.Len(t, msgs, 2)
	format, _ := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIInvalidContent(t *testing.T) {
	url := chatServer(t, http.StatusOK, chatCompletion(`{"wrong":1}`, "stop"), nil)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Schema: nudgeSchema})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestOpenAILength(t *testing.T) {
	url := chatServer(t, http.StatusOK, chatCompletion(`{"nu`, "length"), nil)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Schema: nudgeSchema})
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestOpenAIRateLimit(t *testing.T) {
	url := chatServer(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "slow down", "type": "rate_limit"},
	}, nil)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestOpenRouterUsesSlugAndBaseURL(t *testing.T) {
	var body map[string]any
	url := chatServer(t, http.StatusOK, chatCompletion(`{"nudge":"x"}`, "stop"), &body)
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.5-flash", BaseURL: url})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())

	_, err = p.Generate(context.Background(), Request{Schema: nudgeSchema})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", body["model"])
}

func TestOpenRouterDefaultBaseURL(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.NotNil(t, p.client)

	_, err = NewOpenRouterProvider(OpenRouterConfig{})
	assert.Error(t, err)
}

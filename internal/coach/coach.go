// Package coach asks a language model for a short nudge after a failed
// submission. It never sees the acceptance rule or the solution.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/llm"
)

// Purpose labels coach requests in the LLM event log.
const Purpose = "nudge"

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{MaxTokens: 256, Temperature: 0.4}
}

// NudgeSchema is the response shape the provider must return.
var NudgeSchema = &llm.Schema{
	Name:        "coach-nudge",
	Description: "A short hint that moves a beginner one step closer to a working answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nudge": map[string]any{
				"type":        "string",
				"description": "One to three sentences, no full solution",
			},
		},
		"required":             []string{"nudge"},
		"additionalProperties": false,
	},
}

// Input is what the coach is allowed to see.
type Input struct {
	Number   int
	Question *bank.Question
	Code     string
}

// Nudge is a finished coach reply. Err is set when no text could be
// produced.
type Nudge struct {
	Number int
	Text   string
	Err    error
}

// Service runs one coach request at a time in the background. A newer
// request replaces the result of an older one.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger

	mu    sync.Mutex
	gen   int
	ready bool
	nudge Nudge
}

// NewService returns a coach backed by provider. A nil logger is allowed.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger.Named("coach")}
}

// Request starts generating a nudge for in.
func (s *Service) Request(ctx context.Context, in Input) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.ready = false
	s.mu.Unlock()

	go func() {
		text, err := s.generate(ctx, in)
		if err != nil {
			s.logger.Warn("coach request failed", zap.Int("question", in.Number), zap.Error(err))
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		s.nudge = Nudge{Number: in.Number, Text: text, Err: err}
		s.ready = true
	}()
}

// Consume returns the finished result once and clears it. ok is false
// while the request is still running or nothing was requested.
func (s *Service) Consume() (Nudge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return Nudge{}, false
	}
	n := s.nudge
	s.nudge, s.ready = Nudge{}, false
	return n, true
}

// Ask generates a nudge and waits for it. It does not touch the result
// slot used by Request and Consume.
func (s *Service) Ask(ctx context.Context, in Input) (string, error) {
	return s.generate(ctx, in)
}

type nudgeOutput struct {
	Nudge string `json:"nudge"`
}

func (s *Service) generate(ctx context.Context, in Input) (string, error) {
	if in.Question == nil {
		return "", fmt.Errorf("no question to coach on")
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in)}},
		Schema:      NudgeSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("coach nudge: %w", err)
	}

	var out nudgeOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse nudge: %w", err)
	}
	text := strings.TrimSpace(out.Nudge)
	if text == "" {
		return "", fmt.Errorf("empty nudge")
	}
	return text, nil
}

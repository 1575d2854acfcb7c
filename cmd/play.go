package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/usblord/internal/app"
	"github.com/abhisek/usblord/internal/coach"
	"github.com/abhisek/usblord/internal/engine"
	"github.com/abhisek/usblord/internal/lifecycle"
	"github.com/abhisek/usblord/internal/llm"
	"github.com/abhisek/usblord/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the tutorial",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp builds the services, restores saved progress and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The TUI owns the terminal, so the logger writes to its file only.
	s, err := openSession(cmd, nil, false)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.manager.Load(ctx) {
		s.logger.Info("resuming saved progress")
	}

	engOpts := []engine.Option{engine.WithLogger(s.logger)}
	if s.db != nil {
		engOpts = append(engOpts, engine.WithAttemptLog(s.db.AttemptRepo()))
	}
	eng := engine.New(s.bank, s.manager.State(), s.manager, engOpts...)

	opts := app.Options{
		Engine:   eng,
		Progress: s.manager,
		Hooks:    lifecycle.New(s.manager, s.cfg.AutosaveInterval, s.logger),
		Logger:   s.logger,
	}
	if s.cfg.Coach.Enabled {
		provider, err := s.coachProvider(ctx)
		if err != nil {
			s.logger.Info("coach disabled", zap.Error(err))
		} else {
			opts.Coach = coach.NewService(provider, coach.DefaultConfig(), s.logger)
		}
	}

	return app.Run(ctx, opts)
}

// coachProvider builds the coach's LLM provider from USBLORD_* variables,
// falling back to a vendor's standard API key variable.
func (s *session) coachProvider(ctx context.Context) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if !cfg.HasKey() {
		if found, ok := llm.DiscoverConfig(); ok {
			cfg = found
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	var events store.EventRepo
	if s.db != nil {
		events = s.db.EventRepo()
	}
	return llm.NewProvider(ctx, cfg, events, s.logger)
}

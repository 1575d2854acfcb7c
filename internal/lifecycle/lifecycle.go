// Package lifecycle saves progress on a timer, when the terminal loses
// focus, and before the process exits.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/usblord/internal/progress"
)

// DefaultInterval is how often progress is saved while the TUI runs.
const DefaultInterval = 60 * time.Second

// Saver persists the live state. Save never fails from the caller's view.
type Saver interface {
	Save(ctx context.Context) progress.Record
}

// AutosaveMsg fires when the autosave interval elapses.
type AutosaveMsg struct {
	At time.Time
}

// Hooks wires lifecycle events to a Saver.
type Hooks struct {
	saver    Saver
	interval time.Duration
	logger   *zap.Logger
}

// New creates Hooks that save through saver every interval. A non-positive
// interval uses DefaultInterval.
func New(saver Saver, interval time.Duration, logger *zap.Logger) *Hooks {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hooks{saver: saver, interval: interval, logger: logger.Named("lifecycle")}
}

// Interval returns the autosave period.
func (h *Hooks) Interval() time.Duration { return h.interval }

// Tick schedules the next AutosaveMsg.
func (h *Hooks) Tick() tea.Cmd {
	return tea.Tick(h.interval, func(t time.Time) tea.Msg {
		return AutosaveMsg{At: t}
	})
}

// Handle saves on AutosaveMsg, rescheduling the next tick, and on
// tea.BlurMsg. Other messages are ignored. It runs inside the Bubble Tea
// update loop so saves never interleave with state mutations.
func (h *Hooks) Handle(ctx context.Context, msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case AutosaveMsg:
		h.save(ctx, "interval")
		return h.Tick()
	case tea.BlurMsg:
		h.save(ctx, "blur")
	}
	return nil
}

// Shutdown saves one last time before the process exits.
func (h *Hooks) Shutdown(ctx context.Context) {
	h.save(ctx, "shutdown")
}

func (h *Hooks) save(ctx context.Context, reason string) {
	rec := h.saver.Save(ctx)
	h.logger.Debug("lifecycle save",
		zap.String("reason", reason),
		zap.Int("question", rec.CurrentQuestion),
	)
}

// WatchSignals listens for SIGTERM and SIGHUP until ctx ends or stop is
// called. On a signal it calls onSignal, which should stop the UI so that
// Shutdown runs on the normal exit path. With a nil onSignal the hooks
// save directly.
func (h *Hooks) WatchSignals(ctx context.Context, onSignal func(os.Signal)) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGHUP)
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			h.logger.Info("signal received", zap.Stringer("signal", sig))
			if onSignal != nil {
				onSignal(sig)
				return
			}
			h.save(context.WithoutCancel(ctx), "signal")
		case <-ctx.Done():
		}
	}()
	return cancel
}

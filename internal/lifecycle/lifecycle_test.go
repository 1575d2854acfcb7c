package lifecycle

import (
	"context"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/usblord/internal/progress"
)

type countingSaver struct {
	n atomic.Int32
}

func (s *countingSaver) Save(context.Context) progress.Record {
	s.n.Add(1)
	return progress.Record{CurrentQuestion: 1}
}

func TestNewDefaultsInterval(t *testing.T) {
	h := New(&countingSaver{}, 0, nil)
	assert.Equal(t, DefaultInterval, h.Interval())
}

func TestTickProducesAutosave(t *testing.T) {
	h := New(&countingSaver{}, 5*time.Millisecond, nil)
	msg := h.Tick()()
	_, ok := msg.(AutosaveMsg)
	assert.True(t, ok, "got %T", msg)
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		msg        tea.Msg
		wantSaves  int32
		wantResume bool
	}{
		{"autosave", AutosaveMsg{At: time.Now()}, 1, true},
		{"blur", tea.BlurMsg{}, 1, false},
		{"focus", tea.FocusMsg{}, 0, false},
		{"other", tea.WindowSizeMsg{Width: 80, Height: 24}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &countingSaver{}
			h := New(s, time.Minute, nil)
			cmd := h.Handle(ctx, tt.msg)
			assert.Equal(t, tt.wantSaves, s.n.Load())
			assert.Equal(t, tt.wantResume, cmd != nil)
		})
	}
}

func TestShutdownSaves(t *testing.T) {
	s := &countingSaver{}
	New(s, time.Minute, nil).Shutdown(context.Background())
	assert.Equal(t, int32(1), s.n.Load())
}

func TestWatchSignalsCallsBack(t *testing.T) {
	s := &countingSaver{}
	h := New(s, time.Minute, nil)

	got := make(chan os.Signal, 1)
	stop := h.WatchSignals(context.Background(), func(sig os.Signal) { got <- sig })
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))
	select {
	case sig := <-got:
		assert.Equal(t, syscall.SIGHUP, sig)
	case <-time.After(2 * time.Second):
		t.Fatal("signal not delivered")
	}
	assert.Zero(t, s.n.Load(), "callback path leaves saving to Shutdown")
}

func TestWatchSignalsSavesWithoutCallback(t *testing.T) {
	s := &countingSaver{}
	h := New(s, time.Minute, nil)

	stop := h.WatchSignals(context.Background(), nil)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))
	assert.Eventually(t, func() bool { return s.n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatchSignalsStop(t *testing.T) {
	s := &countingSaver{}
	h := New(s, time.Minute, nil)

	stop := h.WatchSignals(context.Background(), nil)
	stop()
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, s.n.Load())
}

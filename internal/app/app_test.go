package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/engine"
	"github.com/abhisek/usblord/internal/lifecycle"
	"github.com/abhisek/usblord/internal/progress"
	"github.com/abhisek/usblord/internal/store"
)

type countingDisplay struct{ pulses int }

func (d *countingDisplay) PulseSaveIndicator() { d.pulses++ }

func newTestModel(t *testing.T) (AppModel, *countingDisplay) {
	t.Helper()
	b, err := bank.Default()
	require.NoError(t, err)

	disp := &countingDisplay{}
	state := progress.NewState(time.Now())
	mgr := progress.NewManager(state, store.NewDurable(nil, nil), progress.WithDisplay(disp))
	m := newAppModel(context.Background(), Options{
		Engine:   engine.New(b, state, mgr),
		Progress: mgr,
		Hooks:    lifecycle.New(mgr, time.Minute, nil),
	})
	return m, disp
}

func update(m AppModel, msg tea.Msg) AppModel {
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func TestLifecycleSavesThroughUpdate(t *testing.T) {
	m, disp := newTestModel(t)

	m = update(m, lifecycle.AutosaveMsg{At: time.Now()})
	assert.Equal(t, 1, disp.pulses)

	m = update(m, tea.BlurMsg{})
	assert.Equal(t, 2, disp.pulses)

	update(m, tea.FocusMsg{})
	assert.Equal(t, 2, disp.pulses)
}

func TestStartAndLeaveTutorial(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = update(m, cmd())
	assert.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Protocol 001", m.router.Active().Title())

	v := m.View()
	assert.True(t, v.ReportFocus)

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	m = update(m, cmd())
	assert.Equal(t, 1, m.router.Depth())
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTooSmall(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.NotNil(t, m.View().Content)
}

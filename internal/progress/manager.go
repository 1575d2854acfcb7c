package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/usblord/internal/bank"
)

// ResetWarning is the text shown when asking the learner to confirm a reset.
const ResetWarning = "⚠️ SYSTEM RESET WARNING ⚠️\n\nThis will permanently delete all progress and cannot be undone.\n\nProceed with system reset?"

// ErrResetNotPending is returned by ConfirmReset when the token does not
// match an outstanding reset request.
var ErrResetNotPending = errors.New("no matching reset request")

// ErrResetNotPersisted is returned by ConfirmReset when the live state was
// reset but the saved record could not be deleted. A later Load would
// bring the old progress back.
var ErrResetNotPersisted = errors.New("saved progress could not be deleted")

// Store is the best-effort key/value store progress is written through.
// None of its methods report errors.
type Store interface {
	Save(ctx context.Context, key string, value []byte)
	Load(ctx context.Context, key string) ([]byte, bool)
	Remove(ctx context.Context, key string)
}

// Display receives fire-and-forget save notifications.
type Display interface {
	PulseSaveIndicator()
}

// Refresher re-renders the current question and the stats panel after the
// live state is replaced wholesale.
type Refresher interface {
	Show()
}

// ResetToken identifies one pending reset request.
type ResetToken string

// Manager persists and restores the live State.
type Manager struct {
	state      *State
	store      Store
	downloader Downloader
	logger     *zap.Logger
	now        func() time.Time

	mu        sync.Mutex
	display   Display
	refresher Refresher
	pending   ResetToken
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithDownloader sets where exports are delivered.
func WithDownloader(d Downloader) Option {
	return func(m *Manager) { m.downloader = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithDisplay sets the save indicator sink.
func WithDisplay(d Display) Option {
	return func(m *Manager) { m.display = d }
}

// NewManager creates a Manager for state backed by store.
func NewManager(state *State, store Store, opts ...Option) *Manager {
	m := &Manager{
		state:  state,
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("progress")
	return m
}

// State returns the live state the manager persists.
func (m *Manager) State() *State { return m.state }

// SetDisplay replaces the save indicator sink. A nil display disables it.
func (m *Manager) SetDisplay(d Display) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.display = d
}

// SetRefresher sets what is re-rendered after Load and ConfirmReset.
func (m *Manager) SetRefresher(r Refresher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresher = r
}

func (m *Manager) hooks() (Display, Refresher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.display, m.refresher
}

// Save snapshots the live state, writes it through the store, pulses the
// save indicator and returns the record. It is safe to call at any time.
func (m *Manager) Save(ctx context.Context) Record {
	rec := m.state.Snapshot()
	rec.SavedAt = m.now().UnixMilli()
	rec.Version = RecordVersion

	data, err := json.Marshal(rec)
	if err != nil {
		m.logger.Warn("encode progress record", zap.Error(err))
	} else {
		m.store.Save(ctx, StorageKey, data)
	}

	if d, _ := m.hooks(); d != nil {
		d.PulseSaveIndicator()
	}
	m.logger.Debug("progress saved",
		zap.Int("question", rec.CurrentQuestion),
		zap.Int("score", rec.Score),
		zap.Int("completed", len(rec.CompletedQuestions)),
	)
	return rec
}

// Load restores the live state from the saved record. It returns false and
// leaves the live state untouched when there is no usable record.
func (m *Manager) Load(ctx context.Context) bool {
	data, ok := m.store.Load(ctx, StorageKey)
	if !ok {
		return false
	}
	rec, err := decodeRecord(data)
	if err != nil {
		m.logger.Warn("ignoring saved progress", zap.Error(err))
		return false
	}
	m.restore(rec, "progress loaded")
	return true
}

// restore replaces the live state with rec and refreshes the display.
func (m *Manager) restore(rec Record, msg string) {
	if want := bank.ChapterOf(rec.CurrentQuestion); rec.CurrentChapter != want {
		m.logger.Warn("saved chapter disagrees with question, re-deriving",
			zap.Int("question", rec.CurrentQuestion),
			zap.Int("saved_chapter", rec.CurrentChapter),
			zap.Int("chapter", want),
		)
	}

	m.state.Restore(rec)
	if _, r := m.hooks(); r != nil {
		r.Show()
	}
	m.logger.Info(msg,
		zap.Int("question", rec.CurrentQuestion),
		zap.Int("score", rec.Score),
	)
}

// RequestReset starts a reset and returns the token ConfirmReset needs. A
// new request replaces any earlier one.
func (m *Manager) RequestReset() ResetToken {
	tok := ResetToken(uuid.NewString())
	m.mu.Lock()
	m.pending = tok
	m.mu.Unlock()
	return tok
}

// CancelReset discards the pending reset request, if any.
func (m *Manager) CancelReset() {
	m.mu.Lock()
	m.pending = ""
	m.mu.Unlock()
}

// ConfirmReset performs the reset requested with tok: defaults are restored,
// the saved record is removed and the display refreshed. A stale or unknown
// token changes nothing and returns ErrResetNotPending.
//
// Removal is best-effort. If the durable tier still holds the record
// afterwards, the live state stays reset and ErrResetNotPersisted is
// returned so the caller can warn that a later load would restore it.
func (m *Manager) ConfirmReset(ctx context.Context, tok ResetToken) error {
	m.mu.Lock()
	if m.pending == "" || tok != m.pending {
		m.mu.Unlock()
		return ErrResetNotPending
	}
	m.pending = ""
	refresher := m.refresher
	m.mu.Unlock()

	m.state.Reset(m.now())
	m.store.Remove(ctx, StorageKey)
	if refresher != nil {
		refresher.Show()
	}
	if _, ok := m.store.Load(ctx, StorageKey); ok {
		m.logger.Warn("progress reset but the saved record survived")
		return ErrResetNotPersisted
	}
	m.logger.Info("progress reset")
	return nil
}

// ExportFilename returns the export file name for the given day.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("usb-lord-progress-%s.json", t.UTC().Format("2006-01-02"))
}

// Export saves, then hands the pretty-printed record to the downloader. It
// returns where the downloader put it.
func (m *Manager) Export(ctx context.Context) (string, error) {
	if m.downloader == nil {
		return "", errors.New("export: no downloader configured")
	}
	rec := m.Save(ctx)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: encode record: %w", err)
	}
	path, err := m.downloader.Download(ctx, ExportFilename(m.now()), data)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	m.logger.Info("progress exported", zap.String("path", path))
	return path, nil
}

// Import validates a previously exported file, stores it as the saved
// record and restores it. The live state comes from data itself, not a
// re-read of the store, so a medium that rejects the write cannot hand
// back an older record.
func (m *Manager) Import(ctx context.Context, data []byte) error {
	if err := validateExport(data); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	rec, err := decodeRecord(data)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	canonical, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("import: encode record: %w", err)
	}
	m.store.Save(ctx, StorageKey, canonical)
	m.restore(rec, "progress imported")
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/usblord/internal/bank"
	"github.com/abhisek/usblord/internal/config"
	"github.com/abhisek/usblord/internal/logging"
	"github.com/abhisek/usblord/internal/progress"
	"github.com/abhisek/usblord/internal/store"
)

// session bundles the services every command needs.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *store.Store // nil when running volatile-only
	bank    *bank.Bank
	manager *progress.Manager
}

// openSession loads config, the logger, the database and the saved
// progress. With requireDB false a database that cannot be opened is
// logged and progress lives in memory only for this run.
func openSession(cmd *cobra.Command, console io.Writer, requireDB bool) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log, console)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	s := &session{cfg: cfg, logger: logger}

	var medium store.Medium
	if err := store.EnsureDir(cfg.DBPath); err != nil {
		logger.Warn("create data dir", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	db, err := store.Open(cfg.DBPath)
	switch {
	case err == nil:
		s.db = db
		medium = db.Medium()
	case requireDB:
		_ = logger.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	default:
		logger.Warn("store unavailable, progress will not survive this run",
			zap.String("path", cfg.DBPath), zap.Error(err))
	}

	b, err := bank.Default()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	s.bank = b

	s.manager = progress.NewManager(
		progress.NewState(time.Now()),
		store.NewDurable(medium, logger),
		progress.WithDownloader(progress.DirDownloader{Dir: cfg.ExportDir}),
		progress.WithLogger(logger),
	)
	return s, nil
}

// Close releases the database and flushes the logger.
func (s *session) Close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("close store", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

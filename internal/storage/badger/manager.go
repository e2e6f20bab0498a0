package badger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/interfaces"
)

// Manager owns the Badger store backing the report archive and hands out
// the storages built on it.
type Manager struct {
	store   *badgerhold.Store
	reports interfaces.ReportStorage
	logger  arbor.ILogger
}

// NewManager opens the report archive and builds its storages. The
// embedding service is injected so Save can vectorize reports in the same
// operation that stores them.
func NewManager(logger arbor.ILogger, config *common.BadgerConfig, embedder interfaces.EmbeddingService) (interfaces.StorageManager, error) {
	store, err := openStore(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		store:   store,
		reports: NewReportStorage(store, embedder, logger),
		logger:  logger,
	}

	logger.Info().Str("path", config.Path).Msg("Report archive opened")

	return manager, nil
}

// openStore opens the badgerhold store at the configured path, wiping it
// first when reset_on_startup is set. A wipe that leaves stale report data
// behind would poison similarity search, so a failed reset aborts startup.
func openStore(logger arbor.ILogger, config *common.BadgerConfig) (*badgerhold.Store, error) {
	if config.ResetOnStartup {
		if _, err := os.Stat(config.Path); err == nil {
			logger.Debug().Str("path", config.Path).Msg("Deleting report archive (reset_on_startup=true)")
			if err := os.RemoveAll(config.Path); err != nil {
				return nil, fmt.Errorf("failed to reset report archive at %s: %w", config.Path, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil // arbor is the only logger; silence badger's own

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open report archive: %w", err)
	}
	return store, nil
}

// ReportStorage returns the report storage interface
func (m *Manager) ReportStorage() interfaces.ReportStorage {
	return m.reports
}

// RunGC runs one value-log garbage collection pass. Badger only rewrites a
// log file when at least half of it is stale, so ErrNoRewrite is routine.
func (m *Manager) RunGC() error {
	if m.store == nil {
		return nil
	}
	err := m.store.Badger().RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		// Nothing to reclaim; routine outcome, not a failure
		m.logger.Debug().Msg("Value log GC pass made no progress")
		return nil
	}
	if err != nil {
		return err
	}
	m.logger.Info().Msg("Value log GC pass completed")
	return nil
}

// Close closes the underlying store
func (m *Manager) Close() error {
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

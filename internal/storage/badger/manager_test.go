package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
)

func TestOpenStoreResetOnStartupWipesArchive(t *testing.T) {
	logger := arbor.NewLogger()
	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "archive")}

	store, err := openStore(logger, config)
	require.NoError(t, err)
	require.NoError(t, store.Insert("rpt_stale", &models.StoredReport{ID: "rpt_stale", Company: "Oldco"}))
	require.NoError(t, store.Close())

	// Reopen without the reset flag: data survives.
	store, err = openStore(logger, config)
	require.NoError(t, err)
	count, err := store.Count(&models.StoredReport{}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
	require.NoError(t, store.Close())

	// Reopen with the reset flag: archive starts empty.
	config.ResetOnStartup = true
	store, err = openStore(logger, config)
	require.NoError(t, err)
	defer store.Close()
	count, err = store.Count(&models.StoredReport{}, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNewManagerWiresReportStorage(t *testing.T) {
	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "archive")}

	manager, err := NewManager(arbor.NewLogger(), config, &fakeEmbedder{})
	require.NoError(t, err)
	defer manager.Close()

	id, err := manager.ReportStorage().Save(context.Background(), analysisFor("NVIDIA", "Q3 2024", 80), "")
	require.NoError(t, err)

	report, err := manager.ReportStorage().Get(id)
	require.NoError(t, err)
	assert.Equal(t, "NVIDIA", report.Company)

	require.NoError(t, manager.RunGC())
}

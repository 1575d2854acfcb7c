package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) Config {
	return Config{
		Path:       filepath.Join(t.TempDir(), "logs", "usblord.log"),
		Level:      "info",
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	cfg := testConfig(t)
	logger, err := New(cfg, nil)
	require.NoError(t, err)

	logger.Named("store").Warn("durable save failed", zap.String("key", "usbLordProgress"))
	logger.Debug("dropped below level")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(cfg.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "store", entry["logger"])
	assert.Equal(t, "usbLordProgress", entry["key"])
}

func TestConsoleCoreOnlyGetsWarnings(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(testConfig(t), &console)
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, console.String(), "quiet")
	assert.Contains(t, console.String(), "loud")
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Level = "chatty"
	_, err := New(cfg, nil)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Path = ""
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForComponentWritesToRotatedFile(t *testing.T) {
	dir := t.TempDir()
	log := ForComponent(CompCache) // created before Init on purpose

	Init(Config{Dir: dir, Level: "debug", Format: "json", Quiet: true})
	t.Cleanup(func() { _ = Close() })

	log.Warn("cache read failed", slog.String("key", "abc"))
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, "parserbot.log"))
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, `"component":"cache"`)
	assert.Contains(t, line, `"key":"abc"`)
	assert.Contains(t, line, `"level":"WARN"`)
}

func TestLevelFiltersDebug(t *testing.T) {
	dir := t.TempDir()
	Init(Config{Dir: dir, Level: "info", Quiet: true})
	t.Cleanup(func() { _ = Close() })

	ForComponent(CompSearch).Debug("hidden")
	ForComponent(CompSearch).Info("shown")
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, "parserbot.log"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "hidden"))
	assert.True(t, strings.Contains(string(data), "shown"))
}

func TestForComponentKeepsGroupOrder(t *testing.T) {
	dir := t.TempDir()
	Init(Config{Dir: dir, Level: "info", Format: "json", Quiet: true})
	t.Cleanup(func() { _ = Close() })

	ForComponent(CompBot).
		With("outer", 1).
		WithGroup("req").
		With("inner", 2).
		Info("handled", "status", "ok")
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, "parserbot.log"))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "bot", entry["component"])
	assert.EqualValues(t, 1, entry["outer"])
	assert.NotContains(t, entry, "inner")
	assert.Equal(t, map[string]any{"inner": float64(2), "status": "ok"}, entry["req"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

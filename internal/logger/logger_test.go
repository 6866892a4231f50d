package logger

import (
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, log.WarnLevel, Level(-1))
	assert.Equal(t, log.WarnLevel, Level(0))
	assert.Equal(t, log.InfoLevel, Level(1))
	assert.Equal(t, log.DebugLevel, Level(2))
	assert.Equal(t, log.DebugLevel, Level(5))
}

func TestInitWritesToCache(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)
	t.Cleanup(Close)

	assert.Equal(t, filepath.Join(cache, "lootctl", "lootctl.log"), Path())

	require.NoError(t, Init(false, 1))
	assert.Equal(t, log.InfoLevel, Log.GetLevel())
	assert.FileExists(t, Path())

	Close()
	require.NoError(t, Init(true, 0))
	assert.Equal(t, log.DebugLevel, Log.GetLevel())
}

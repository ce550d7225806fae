package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "hero_events.yaml")
	require.NoError(t, os.WriteFile(target, []byte("name: hero\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.Empty(t, w.Poll())
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFileFilters(t *testing.T) {
	assert.True(t, isSpecFile("a/controller.YAML"))
	assert.True(t, isSpecFile("b.yml"))
	assert.False(t, isSpecFile("c.json"))
	assert.True(t, IsScriptFile("scripts/hit.tengo"))
	assert.False(t, IsScriptFile("scripts/hit.lua"))
}

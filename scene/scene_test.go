package scene

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/clipevents/ecs/system"
	"github.com/milk9111/clipevents/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = prev })
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

const reboundSpec = `name: hero
controller: controller.yaml
play: Attack
initialize_on_awake: true
events:
  - clip: Attack
    time: 0.75
    action: swing
`

// runFor advances the scene by the given seconds at the system's fixed rate.
func runFor(s *Scene, seconds float32) {
	for i := 0; i < int(seconds*system.TPS+0.5); i++ {
		s.Update()
	}
}

func TestSceneBindsOnFirstFrame(t *testing.T) {
	useDir(t, t.TempDir())
	s, err := New("hero_events.yaml")
	require.NoError(t, err)

	s.Update()

	attack := s.Controller.FindClipByName("Attack")
	require.NotNil(t, attack)
	assert.Equal(t, float32(0.25), attack.Events()[0].Time)
	assert.Equal(t, []float32{0.25, 0.5}, s.Receiver().Positions()[:2])
	assert.Equal(t, 2, s.Receiver().Count(0.5), "script and shake share 0.5")
}

func TestScenePlaysCallbacks(t *testing.T) {
	useDir(t, t.TempDir())
	s, err := New("hero_events.yaml")
	require.NoError(t, err)

	runFor(s, 0.6)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "swing", msgs[0])
	assert.Contains(t, msgs[1], "hit at Attack_")
	assert.Equal(t, "shake", msgs[2])
}

func TestSceneReloadRebinds(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	s, err := New("hero_events.yaml")
	require.NoError(t, err)
	s.Update()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hero_events.yaml"), []byte(reboundSpec), 0o644))
	require.NoError(t, s.Reload())

	assert.Equal(t, []float32{0.75}, s.Receiver().Positions())
	attack := s.Controller.FindClipByName("Attack")
	require.Len(t, attack.Events(), 1)
	assert.Equal(t, float32(0.75), attack.Events()[0].Time)
	assert.Empty(t, s.Controller.FindClipByName("Idle").Events())
}

func TestSceneReloadChanged(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	path := filepath.Join(dir, "hero_events.yaml")
	original, err := prefabs.Load("hero_events.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	s, err := New("hero_events.yaml")
	require.NoError(t, err)
	s.Update()
	positions := s.Receiver().Positions()

	reloaded, err := s.ReloadChanged([]string{path})
	require.NoError(t, err)
	assert.False(t, reloaded, "unchanged handler spec is skipped")

	logs := captureLog(t)
	reloaded, err = s.ReloadChanged([]string{filepath.Join(dir, "controller.yaml")})
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Contains(t, logs.String(), "controller edits apply on restart")
	assert.Equal(t, positions, s.Receiver().Positions())

	require.NoError(t, os.WriteFile(path, []byte(reboundSpec), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	reloaded, err = s.ReloadChanged([]string{path})
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, []float32{0.75}, s.Receiver().Positions())

	reloaded, err = s.ReloadChanged([]string{filepath.Join(dir, "scripts", "hit.tengo")})
	require.NoError(t, err)
	assert.True(t, reloaded, "scripts are read at bind time")
	assert.Equal(t, []float32{0.75}, s.Receiver().Positions())

	reloaded, err = s.ReloadChanged([]string{filepath.Join(dir, "notes.yaml")})
	require.NoError(t, err)
	assert.False(t, reloaded)
}

func TestSceneSaveWritesBoundEvents(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	s, err := New("hero_events.yaml")
	require.NoError(t, err)
	s.Update()

	require.NoError(t, s.Save())

	spec, err := prefabs.LoadControllerSpec("controller.yaml")
	require.NoError(t, err)
	saved := spec.Controller().FindClipByName("Attack")
	require.NotNil(t, saved)
	assert.Len(t, saved.Events(), 2)
}

func TestSceneMessagesAreBounded(t *testing.T) {
	s := &Scene{}
	for i := 0; i < MaxMessages+5; i++ {
		s.Say("m")
	}
	assert.Len(t, s.Messages(), MaxMessages)
}

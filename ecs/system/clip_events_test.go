package system

import (
	"bytes"
	"log"
	"testing"

	"github.com/milk9111/clipevents/clip"
	"github.com/milk9111/clipevents/ecs"
	"github.com/milk9111/clipevents/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func counter(n *int) component.Callback {
	return component.Action(func() { *n++ })
}

func onEventCount(c *clip.Clip, position float32) int {
	n := 0
	for _, e := range c.Events() {
		if e.Function == OnEventFunction && e.Float == position && e.Time == position {
			n++
		}
	}
	return n
}

func receiverOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.EventReceiver {
	t.Helper()
	r, ok := ecs.Get(w, e, component.EventReceiverComponent.Kind())
	require.True(t, ok, "entity should have an event receiver")
	return r
}

func TestBindUnbindSharedPosition(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	c := clip.NewClip("Attack", 2)

	var x, y int
	BindEvent(w, c, e, 0.5, "A", counter(&x))
	BindEvent(w, c, e, 0.5, "B", counter(&y))
	require.Equal(t, 1, onEventCount(c, 0.5))

	r := receiverOf(t, w, e)
	r.OnEvent(0.5)
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)

	UnbindEvent(w, c, e, 0.5, "A", counter(&x))
	assert.Equal(t, 1, onEventCount(c, 0.5), "native event stays while B is bound")

	UnbindEvent(w, c, e, 0.5, "B", counter(&y))
	assert.Equal(t, 0, onEventCount(c, 0.5))
	assert.Empty(t, r.Positions())
}

func TestBindIsIdempotentOnClip(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	c := clip.NewClip("Attack", 1)
	var n int

	BindEvent(w, c, e, 0.25, "swing", counter(&n))
	BindEvent(w, c, e, 0.25, "swing", counter(&n))

	assert.Equal(t, 1, onEventCount(c, 0.25))
	r := receiverOf(t, w, e)
	assert.Equal(t, []string{"swing", "swing"}, r.Names(0.25))

	UnbindEvent(w, c, e, 0.25, "swing", counter(&n))
	assert.Equal(t, 1, onEventCount(c, 0.25), "one registration still holds the position")
	UnbindEvent(w, c, e, 0.25, "swing", counter(&n))
	assert.Equal(t, 0, onEventCount(c, 0.25))
}

func TestBindSharesNativeEventAcrossEntities(t *testing.T) {
	w := ecs.NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()
	c := clip.NewClip("Walk", 1)
	var n int

	BindEvent(w, c, a, 0.5, "step", counter(&n))
	BindEvent(w, c, b, 0.5, "step", counter(&n))
	assert.Equal(t, 1, onEventCount(c, 0.5))

	receiverOf(t, w, a).OnEvent(0.5)
	assert.Equal(t, 1, n, "receivers are per entity")
}

func TestBindValidation(t *testing.T) {
	var n int
	dead := func(w *ecs.World) ecs.Entity {
		e := w.CreateEntity()
		w.DestroyEntity(e)
		return e
	}
	alive := func(w *ecs.World) ecs.Entity { return w.CreateEntity() }

	cases := []struct {
		name     string
		entity   func(w *ecs.World) ecs.Entity
		clip     *clip.Clip
		position float32
		cbName   string
		cb       component.Callback
		wantLog  string
	}{
		{"negative_position", alive, clip.NewClip("Attack", 2), -1, "a", counter(&n), "outside of clip"},
		{"past_length", alive, clip.NewClip("Attack", 2), 2.5, "a", counter(&n), "outside of clip"},
		{"nil_callback", alive, clip.NewClip("Attack", 2), 1, "a", nil, "nil callback"},
		{"empty_name", alive, clip.NewClip("Attack", 2), 1, "", counter(&n), "unnamed callback"},
		{"dead_entity", dead, clip.NewClip("Attack", 2), 1, "a", counter(&n), "dead receiver"},
		{"nil_clip", alive, nil, 1, "a", counter(&n), "nil clip"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			logs := captureLog(t)
			w := ecs.NewWorld()
			e := c.entity(w)

			BindEvent(w, c.clip, e, c.position, c.cbName, c.cb)

			assert.False(t, ecs.Has(w, e, component.EventReceiverComponent.Kind()), "no receiver attached")
			assert.Empty(t, c.clip.Events(), "no native event created")
			assert.Contains(t, logs.String(), c.wantLog)
		})
	}
}

func TestUnbindEmptyNameKeepsNativeEvent(t *testing.T) {
	logs := captureLog(t)
	w := ecs.NewWorld()
	e := w.CreateEntity()
	c := clip.NewClip("Attack", 2)
	var n int

	BindEvent(w, c, e, 1, "a", counter(&n))
	UnbindEvent(w, c, e, 1, "", counter(&n))

	assert.Equal(t, 1, onEventCount(c, 1))
	assert.Equal(t, []string{"a"}, receiverOf(t, w, e).Names(1))
	assert.Contains(t, logs.String(), "unnamed callback")
}

func TestBindAtClipBounds(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	c := clip.NewClip("Attack", 2)
	var n int

	BindEvent(w, c, e, 0, "start", counter(&n))
	BindEvent(w, c, e, 2, "end", counter(&n))

	assert.Equal(t, 1, onEventCount(c, 0))
	assert.Equal(t, 1, onEventCount(c, 2))
}

func TestUnbindWithoutReceiver(t *testing.T) {
	logs := captureLog(t)
	w := ecs.NewWorld()
	e := w.CreateEntity()
	c := clip.NewClip("Attack", 1, clip.Event{Function: OnEventFunction, Float: 0.5, Time: 0.5})
	var n int

	UnbindEvent(w, c, e, 0.5, "a", counter(&n))

	assert.Equal(t, 1, onEventCount(c, 0.5), "clip untouched")
	assert.Contains(t, logs.String(), "without event receiver")
}

func TestUnbindDesyncIsLogged(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	c := clip.NewClip("Attack", 1)
	var n int

	BindEvent(w, c, e, 0.5, "a", counter(&n))
	c.SetEvents(nil)

	logs := captureLog(t)
	assert.NotPanics(t, func() { UnbindEvent(w, c, e, 0.5, "a", counter(&n)) })
	assert.Contains(t, logs.String(), `failed to remove animation event at 0.5 for clip "Attack"`)
	assert.Empty(t, receiverOf(t, w, e).Positions())
}

func TestUnbindLeavesForeignEvents(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	foreign := clip.Event{Function: "PlayFootstep", Float: 0.5, Time: 0.5}
	c := clip.NewClip("Walk", 1, foreign)
	var n int

	BindEvent(w, c, e, 0.5, "a", counter(&n))
	require.Len(t, c.Events(), 2)
	UnbindEvent(w, c, e, 0.5, "a", counter(&n))

	assert.Equal(t, []clip.Event{foreign}, c.Events())
}

func TestAddRemoveEventThroughAnimator(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	attack := clip.NewClip("Attack", 1)
	ctrl := clip.NewController("hero", attack)
	require.NoError(t, ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{Controller: ctrl}))
	var n int

	AddEvent(w, e, "ATTACK", 0.5, "hit", counter(&n))
	assert.Equal(t, 1, onEventCount(attack, 0.5))

	RemoveEvent(w, e, "attack", 0.5, "hit", counter(&n))
	assert.Equal(t, 0, onEventCount(attack, 0.5))
}

func TestAddEventMissingClipIsNoop(t *testing.T) {
	logs := captureLog(t)
	w := ecs.NewWorld()
	e := w.CreateEntity()
	ctrl := clip.NewController("hero", clip.NewClip("Attack", 1))
	require.NoError(t, ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{Controller: ctrl}))
	var n int

	AddEvent(w, e, "Jump", 0.5, "hit", counter(&n))
	RemoveEvent(w, e, "Jump", 0.5, "hit", counter(&n))

	assert.False(t, ecs.Has(w, e, component.EventReceiverComponent.Kind()))
	assert.Contains(t, logs.String(), `failed to find animation clip "Jump"`)
}

func TestAddEventWithoutAnimator(t *testing.T) {
	logs := captureLog(t)
	w := ecs.NewWorld()
	e := w.CreateEntity()
	var n int

	AddEvent(w, e, "Attack", 0.5, "hit", counter(&n))

	assert.False(t, ecs.Has(w, e, component.EventReceiverComponent.Kind()))
	assert.Contains(t, logs.String(), "has no animator")
}

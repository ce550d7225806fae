package system

import (
	"log"

	"github.com/milk9111/clipevents/clip"
	"github.com/milk9111/clipevents/ecs"
	"github.com/milk9111/clipevents/ecs/component"
)

// TPS is the fixed update rate the animation system assumes.
const TPS = 60

// AnimationEventType is the ecs.Event type pushed for every native event
// playback crosses.
const AnimationEventType = "animation_event"

// AnimationEvent is the payload of an AnimationEventType world event.
type AnimationEvent struct {
	Entity ecs.Entity
	Clip   string
	Event  clip.Event
}

// AnimationSystem advances animators and dispatches the native events their
// clips carry. It is the only caller of EventReceiver.OnEvent.
type AnimationSystem struct {
	// Step is the seconds advanced per update; defaults to 1/TPS.
	Step float32
}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{Step: 1.0 / TPS}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if a == nil || w == nil {
		return
	}
	step := a.Step
	if step <= 0 {
		step = 1.0 / TPS
	}

	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(e ecs.Entity, anim *component.Animator) {
		if !anim.Playing {
			return
		}
		c := anim.Clip()
		if c == nil {
			return
		}

		crossed := advance(anim, c, step)
		for _, evt := range crossed {
			w.Events().Push(ecs.Event{
				Type: AnimationEventType,
				Data: AnimationEvent{Entity: e, Clip: c.Name, Event: evt},
			})
			dispatch(w, e, c, evt)
		}
	})
}

// advance moves the animator forward by step seconds and returns the events
// crossed in playback order. Events at the start of the clip fire on the
// first frame and again after every loop wrap.
func advance(anim *component.Animator, c *clip.Clip, step float32) []clip.Event {
	var crossed []clip.Event
	if !anim.Started() {
		anim.MarkStarted()
		crossed = append(crossed, c.EventsAt(anim.Time)...)
	}

	speed := anim.Speed
	if speed <= 0 {
		speed = 1
	}
	prev := anim.Time
	next := prev + step*speed

	if c.Length <= 0 {
		anim.Time = 0
		anim.Playing = false
		return crossed
	}

	for next >= c.Length {
		crossed = append(crossed, c.EventsBetween(prev, c.Length)...)
		if !c.Loop {
			anim.Time = c.Length
			anim.Playing = false
			return crossed
		}
		next -= c.Length
		prev = 0
		crossed = append(crossed, c.EventsAt(0)...)
	}

	crossed = append(crossed, c.EventsBetween(prev, next)...)
	anim.Time = next
	return crossed
}

func dispatch(w *ecs.World, e ecs.Entity, c *clip.Clip, evt clip.Event) {
	if evt.Function != OnEventFunction {
		return
	}
	receiver, ok := ecs.Get(w, e, component.EventReceiverComponent.Kind())
	if !ok {
		log.Printf("animation: event %s on clip %q has no receiver on entity=%v", clip.EventKey(c, evt.Time), c.Name, e)
		return
	}
	receiver.OnEvent(evt.Float)
}

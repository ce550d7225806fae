package system

import (
	"log"

	"github.com/milk9111/clipevents/ecs"
	"github.com/milk9111/clipevents/ecs/component"
)

// HandlerCallbackName is the registration name every handler record binds
// under. Records at the same position are interchangeable for removal.
const HandlerCallbackName = "handler_event"

// EventHandlerSystem binds the records of new AnimationEventHandler
// components that ask to initialize on awake.
type EventHandlerSystem struct{}

func NewEventHandlerSystem() *EventHandlerSystem {
	return &EventHandlerSystem{}
}

func (s *EventHandlerSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AnimationEventHandlerComponent.Kind(), func(e ecs.Entity, h *component.AnimationEventHandler) {
		if h.Awake {
			return
		}
		h.Awake = true
		if h.InitializeOnAwake {
			AddEvents(w, e)
		}
	})
}

// AddEvents binds every record of e's handler to e's animator. The pass
// stops at the first invalid record; records before it stay bound.
func AddEvents(w *ecs.World, e ecs.Entity) {
	forEachRecord(w, e, func(d component.AnimationEventData) {
		AddEvent(w, e, d.ClipName, d.Time, HandlerCallbackName, d.Callback)
	})
}

// RemoveEvents unbinds every record of e's handler, stopping at the first
// invalid record like AddEvents.
func RemoveEvents(w *ecs.World, e ecs.Entity) {
	forEachRecord(w, e, func(d component.AnimationEventData) {
		RemoveEvent(w, e, d.ClipName, d.Time, HandlerCallbackName, d.Callback)
	})
}

func forEachRecord(w *ecs.World, e ecs.Entity, fn func(component.AnimationEventData)) {
	h, ok := ecs.Get(w, e, component.AnimationEventHandlerComponent.Kind())
	if !ok {
		log.Printf("event handler: entity=%v has no animation event handler", e)
		return
	}
	if !ecs.Has(w, e, component.AnimatorComponent.Kind()) {
		log.Printf("event handler: animator component is not assigned on entity=%v", e)
		return
	}
	for _, d := range h.Events {
		if !d.Valid() {
			return
		}
		fn(d)
	}
}

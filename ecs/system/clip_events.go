package system

import (
	"log"
	"math"

	"github.com/milk9111/clipevents/clip"
	"github.com/milk9111/clipevents/ecs"
	"github.com/milk9111/clipevents/ecs/component"
)

// OnEventFunction is the native event function name the animation runtime
// routes to EventReceiver.OnEvent. Events with any other function name
// belong to other systems and are never touched here.
const OnEventFunction = "OnEvent"

// BindEvent registers cb under name at position on e's receiver and makes
// sure the clip carries exactly one native event for that position.
//
// The clip is a shared asset: the native event is visible to every animator
// that plays it.
func BindEvent(w *ecs.World, c *clip.Clip, e ecs.Entity, position float32, name string, cb component.Callback) {
	if !validBinding(w, c, e, position, name, cb, "register") {
		return
	}

	receiver, err := ecs.GetOrAdd(w, e, component.EventReceiverComponent.Kind(), component.NewEventReceiver)
	if err != nil {
		log.Printf("clip events: entity=%v attach event receiver: %v", e, err)
		return
	}

	receiver.Register(position, cb, name)
	c.AddEventIfNotExists(OnEventFunction, position, position)
}

// UnbindEvent removes the callback named name at position from e's
// receiver. When it was the last one there, the native event is removed
// from the clip too.
func UnbindEvent(w *ecs.World, c *clip.Clip, e ecs.Entity, position float32, name string, cb component.Callback) {
	if !validBinding(w, c, e, position, name, cb, "unregister") {
		return
	}

	receiver, ok := ecs.Get(w, e, component.EventReceiverComponent.Kind())
	if !ok {
		log.Printf("clip events: trying to unregister callback for entity=%v without event receiver", e)
		return
	}

	if !receiver.Unregister(position, name).Emptied() {
		return
	}
	if !c.RemoveEvent(OnEventFunction, position, position) {
		log.Printf("clip events: failed to remove animation event at %v for clip %q", position, c.Name)
	}
}

// AddEvent binds cb to time within the clip named clipName of e's animator.
// A missing animator or clip makes this a no-op.
func AddEvent(w *ecs.World, e ecs.Entity, clipName string, time float32, name string, cb component.Callback) {
	c := animatorClip(w, e, clipName)
	if c == nil {
		return
	}
	BindEvent(w, c, e, time, name, cb)
}

// RemoveEvent is the inverse of AddEvent.
func RemoveEvent(w *ecs.World, e ecs.Entity, clipName string, time float32, name string, cb component.Callback) {
	c := animatorClip(w, e, clipName)
	if c == nil {
		return
	}
	UnbindEvent(w, c, e, time, name, cb)
}

func animatorClip(w *ecs.World, e ecs.Entity, clipName string) *clip.Clip {
	animator, ok := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if !ok {
		log.Printf("clip events: entity=%v has no animator", e)
		return nil
	}
	c := animator.Controller.FindClipByName(clipName)
	if c == nil {
		log.Printf("clip events: failed to find animation clip %q for entity=%v", clipName, e)
	}
	return c
}

func validBinding(w *ecs.World, c *clip.Clip, e ecs.Entity, position float32, name string, cb component.Callback, action string) bool {
	if c == nil {
		log.Printf("clip events: trying to %s callback for nil clip", action)
		return false
	}
	if !w.IsAlive(e) {
		log.Printf("clip events: trying to %s callback for dead receiver entity=%v", action, e)
		return false
	}
	if cb == nil {
		log.Printf("clip events: trying to %s nil callback for clip %q", action, c.Name)
		return false
	}
	if name == "" {
		log.Printf("clip events: trying to %s unnamed callback for clip %q", action, c.Name)
		return false
	}
	if math.IsNaN(float64(position)) || position < 0 || position > c.Length {
		log.Printf("clip events: trying to %s callback at %v outside of clip %q timeline [0, %v]", action, position, c.Name, c.Length)
		return false
	}
	return true
}

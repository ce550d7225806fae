package component

import "log"

// AnimationEventData is one authored "call this at that time of that clip"
// record.
type AnimationEventData struct {
	ClipName string
	Time     float32
	Callback Callback
	// Label names the record in logs and debug output.
	Label string
}

// Valid reports whether the record can be bound, logging every problem.
func (d AnimationEventData) Valid() bool {
	ok := true
	if d.ClipName == "" {
		log.Printf("animation event data: clip name is empty")
		ok = false
	}
	if d.Time < 0 {
		log.Printf("animation event data: event time %v is invalid", d.Time)
		ok = false
	}
	if d.Callback == nil {
		log.Printf("animation event data: callback is nil")
		ok = false
	}
	return ok
}

// AnimationEventHandler holds authored event records for an entity that
// also has an Animator.
type AnimationEventHandler struct {
	Events            []AnimationEventData
	InitializeOnAwake bool

	// Awake is set once the handler has been seen by the handler system.
	Awake bool
}

var AnimationEventHandlerComponent = NewComponent[AnimationEventHandler]()

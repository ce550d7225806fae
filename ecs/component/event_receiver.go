package component

import (
	"log"
	"slices"
)

// Callback is invoked when playback reaches the position it was registered
// at. A returned error is logged and does not stop other callbacks.
type Callback func() error

// Action adapts a plain func to a Callback.
func Action(fn func()) Callback {
	if fn == nil {
		return nil
	}
	return func() error {
		fn()
		return nil
	}
}

// NamedCallback pairs a callback with the name it is identified by. Two
// callbacks are the same registration only if their names are equal; the
// funcs themselves are never compared.
type NamedCallback struct {
	Name     string
	Callback Callback
}

// UnregisterResult reports what Unregister did.
type UnregisterResult int

const (
	// UnregisterNotFound means nothing was removed.
	UnregisterNotFound UnregisterResult = iota
	// UnregisterRemoved means a callback was removed and others remain at
	// the position.
	UnregisterRemoved
	// UnregisterEmptied means the last callback at the position was removed
	// and the position itself was dropped.
	UnregisterEmptied
)

// Emptied reports whether the position has no callbacks left.
func (r UnregisterResult) Emptied() bool {
	return r == UnregisterEmptied
}

func (r UnregisterResult) String() string {
	switch r {
	case UnregisterRemoved:
		return "removed"
	case UnregisterEmptied:
		return "emptied"
	default:
		return "not_found"
	}
}

// EventReceiver maps clip positions to the callbacks registered there.
// Positions are exact float32 keys: a callback bound at 0.5 only fires for
// an event carrying exactly 0.5.
type EventReceiver struct {
	callbacks map[float32][]NamedCallback
}

var EventReceiverComponent = NewComponent[EventReceiver]()

// NewEventReceiver creates an empty receiver.
func NewEventReceiver() *EventReceiver {
	return &EventReceiver{callbacks: make(map[float32][]NamedCallback)}
}

// Register adds cb under name at position. Several callbacks may share a
// position; they fire in registration order.
func (r *EventReceiver) Register(position float32, cb Callback, name string) {
	if r == nil {
		return
	}
	if cb == nil {
		log.Printf("event receiver: attempted to register a nil callback")
		return
	}
	if name == "" {
		log.Printf("event receiver: attempted to register a callback with an empty name")
		return
	}
	if r.callbacks == nil {
		r.callbacks = make(map[float32][]NamedCallback)
	}
	r.callbacks[position] = append(r.callbacks[position], NamedCallback{Name: name, Callback: cb})
}

// Unregister removes the first callback named name at position.
func (r *EventReceiver) Unregister(position float32, name string) UnregisterResult {
	if r == nil {
		return UnregisterNotFound
	}
	if name == "" {
		log.Printf("event receiver: attempted to unregister a callback with an empty name")
		return UnregisterNotFound
	}
	list, ok := r.callbacks[position]
	if !ok {
		log.Printf("event receiver: no callbacks registered at position %v", position)
		return UnregisterNotFound
	}
	idx := slices.IndexFunc(list, func(c NamedCallback) bool { return c.Name == name })
	if idx < 0 {
		log.Printf("event receiver: callback %q not found at position %v", name, position)
		return UnregisterNotFound
	}

	list = slices.Delete(list, idx, idx+1)
	if len(list) == 0 {
		delete(r.callbacks, position)
		return UnregisterEmptied
	}
	r.callbacks[position] = list
	return UnregisterRemoved
}

// OnEvent is the dispatch entry point called by the animation runtime with
// the float parameter of the native event it reached.
func (r *EventReceiver) OnEvent(position float32) {
	r.Fire(position)
}

// Fire invokes every callback registered at position when the pass starts.
// Callbacks registered while firing are not invoked until the next Fire.
func (r *EventReceiver) Fire(position float32) {
	if r == nil {
		return
	}
	list, ok := r.callbacks[position]
	if !ok {
		log.Printf("event receiver: no callbacks registered for timeline position %v", position)
		return
	}

	// callbacks may register or unregister at position while we iterate
	for _, nc := range slices.Clone(list) {
		invoke(nc)
	}
}

// Has reports whether any callback is registered at position.
func (r *EventReceiver) Has(position float32) bool {
	if r == nil {
		return false
	}
	_, ok := r.callbacks[position]
	return ok
}

// Count returns the number of callbacks at position.
func (r *EventReceiver) Count(position float32) int {
	if r == nil {
		return 0
	}
	return len(r.callbacks[position])
}

// Names returns the callback names at position in registration order.
func (r *EventReceiver) Names(position float32) []string {
	if r == nil {
		return nil
	}
	list := r.callbacks[position]
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	return names
}

// Positions returns every position with callbacks, ascending.
func (r *EventReceiver) Positions() []float32 {
	if r == nil {
		return nil
	}
	out := make([]float32, 0, len(r.callbacks))
	for p := range r.callbacks {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func invoke(c NamedCallback) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("event receiver: error executing callback %q: panic: %v", c.Name, rec)
		}
	}()
	if c.Callback == nil {
		return
	}
	if err := c.Callback(); err != nil {
		log.Printf("event receiver: error executing callback %q: %v", c.Name, err)
	}
}

package ecs

import "github.com/milk9111/clipevents/ecs/component"

func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if value == nil {
		return component.ErrNilComponent
	}
	return w.addComponent(e, kind.ID(), value)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return w.removeComponent(e, kind.ID())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := w.getComponent(e, kind.ID())
	return ok
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	value, ok := w.getComponent(e, kind.ID())
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	if !ok {
		return nil, false
	}
	return cast, true
}

// GetOrAdd returns the component of kind on e, attaching the value built by
// create when the entity does not have one yet.
func GetOrAdd[T any](w *World, e Entity, kind component.ComponentKind[T], create func() *T) (*T, error) {
	if existing, ok := Get(w, e, kind); ok {
		return existing, nil
	}
	var value *T
	if create != nil {
		value = create()
	}
	if value == nil {
		value = new(T)
	}
	if err := Add(w, e, kind, value); err != nil {
		return nil, err
	}
	return value, nil
}

// ForEach calls fn for every entity holding a component of kind. Components
// added during iteration are not visited.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	set := w.store(kind.ID(), false)
	for _, e := range set.Entities() {
		if v, ok := Get(w, e, kind); ok {
			fn(e, v)
		}
	}
}

package ecs

import "fmt"

// Entity packs a slot id in the low 32 bits and the slot's generation in the
// high 32 bits, so a handle to a destroyed entity never matches the slot's
// next owner.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return fmt.Sprintf("%d.%d", e.id(), e.generation())
}

// Valid reports whether e refers to a slot at all; it says nothing about
// whether the entity is still alive.
func (e Entity) Valid() bool {
	return e.id() > 0
}

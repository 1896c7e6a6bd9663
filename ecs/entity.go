package ecs

import (
	"log/slog"
	"strconv"
)

// Entity packs an id (low 32 bits) and a generation (high 32 bits). The zero
// value is never handed out by a World.
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

// String renders "<id>v<generation>", e.g. "3v1".
func (e Entity) String() string {
	if !e.Valid() {
		return "none"
	}
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

func (e Entity) LogValue() slog.Value {
	return slog.StringValue(e.String())
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

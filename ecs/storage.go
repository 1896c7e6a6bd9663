package ecs

// entityStore tracks entity generations and free ids.
type entityStore struct {
	nextID entityID
	gen    []generation
	free   []entityID
}

func (s *entityStore) create() Entity {
	var id entityID
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.nextID++
		id = s.nextID
		s.gen = append(s.gen, 0)
	}
	return makeEntity(id, s.gen[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	s.gen[id-1]++
	s.free = append(s.free, id)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	return s.gen[id-1] == e.generation()
}

func (s *entityStore) entity(id entityID) Entity {
	if id == 0 || int(id) > len(s.gen) {
		return 0
	}
	return makeEntity(id, s.gen[id-1])
}

func (s *entityStore) alive() []Entity {
	out := make([]Entity, 0, len(s.gen)-len(s.free))
	freed := make(map[entityID]struct{}, len(s.free))
	for _, id := range s.free {
		freed[id] = struct{}{}
	}
	for i := range s.gen {
		id := entityID(i + 1)
		if _, ok := freed[id]; ok {
			continue
		}
		out = append(out, makeEntity(id, s.gen[i]))
	}
	return out
}

package ecs

// Registry issues entity handles and tracks which are alive. Destroyed slots
// are reused with a bumped generation so stale handles never compare alive.
type Registry struct {
	gen   []generation
	alive []bool
	free  []entityID
	count int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Create allocates a new entity.
func (r *Registry) Create() Entity {
	var id entityID
	if n := len(r.free); n > 0 {
		id = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.gen = append(r.gen, 0)
		r.alive = append(r.alive, false)
		id = entityID(len(r.gen))
	}
	r.alive[id-1] = true
	r.count++
	return makeEntity(id, r.gen[id-1])
}

// Destroy marks e dead. It reports false for unknown or stale handles.
func (r *Registry) Destroy(e Entity) bool {
	if !r.IsAlive(e) {
		return false
	}
	idx := e.id() - 1
	r.gen[idx]++
	r.alive[idx] = false
	r.free = append(r.free, e.id())
	r.count--
	return true
}

// IsAlive reports whether an entity handle is valid.
func (r *Registry) IsAlive(e Entity) bool {
	if r == nil || !e.Valid() || int(e.id()) > len(r.gen) {
		return false
	}
	idx := e.id() - 1
	return r.alive[idx] && r.gen[idx] == e.generation()
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.count
}

// Clear destroys every live entity. Generations are kept so handles issued
// before the clear stay dead.
func (r *Registry) Clear() {
	if r == nil {
		return
	}
	r.free = r.free[:0]
	for i := len(r.gen) - 1; i >= 0; i-- {
		if r.alive[i] {
			r.gen[i]++
			r.alive[i] = false
		}
		r.free = append(r.free, entityID(i+1))
	}
	r.count = 0
}

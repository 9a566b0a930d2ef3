package entities

import "log/slog"

// Registry is the session's entity arena: the single owner of all entities
// and their controllers, iterated in stable spawn order. It is not safe for
// concurrent use; the simulation serializes access.
type Registry struct {
	order    []EntityID
	entities map[EntityID]*Entity
	ctrls    map[EntityID]*Controller
	nextID   EntityID
}

func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[EntityID]*Entity),
		ctrls:    make(map[EntityID]*Controller),
		nextID:   1,
	}
}

// Add takes ownership of an entity and its controller. A zero ID is
// assigned from the arena counter.
func (r *Registry) Add(e *Entity, c *Controller) EntityID {
	if e.ID == 0 {
		e.ID = r.nextID
	}
	if e.ID >= r.nextID {
		r.nextID = e.ID + 1
	}
	r.order = append(r.order, e.ID)
	r.entities[e.ID] = e
	r.ctrls[e.ID] = c
	return e.ID
}

// Entity returns the entity for an ID, or nil.
func (r *Registry) Entity(id EntityID) *Entity {
	return r.entities[id]
}

// Controller returns the behavior controller for an ID, or nil.
func (r *Registry) Controller(id EntityID) *Controller {
	return r.ctrls[id]
}

// All returns the live entities in spawn order.
func (r *Registry) All() []*Entity {
	out := make([]*Entity, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Controllers returns the controllers in spawn order.
func (r *Registry) Controllers() []*Controller {
	out := make([]*Controller, 0, len(r.order))
	for _, id := range r.order {
		if c, ok := r.ctrls[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.entities)
}

// ApplyDeath resolves an entity reaching zero health: hostiles are removed
// from the arena, everyone else is knocked unconscious and stays.
func (r *Registry) ApplyDeath(id EntityID) {
	e := r.entities[id]
	if e == nil {
		return
	}
	if e.Hostile() {
		r.remove(id)
		slog.Info("entity slain", "id", id, "name", e.Name)
		return
	}
	e.Unconscious = true
	e.Health = 0
	slog.Info("entity unconscious", "id", id, "name", e.Name)
}

func (r *Registry) remove(id EntityID) {
	delete(r.entities, id)
	delete(r.ctrls, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

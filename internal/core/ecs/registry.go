package ecs

// Registry tracks every component store so entity destruction can clear all
// component data in one pass.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 8),
	}
}

func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll strips the entity from every registered store.
func (r *Registry) RemoveAll(e Entity) {
	for _, s := range r.stores {
		s.Remove(e)
	}
}

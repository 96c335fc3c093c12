package ecs

// Removable is implemented by every component store so the Registry can strip
// an entity from all stores when it is destroyed.
type Removable interface {
	Remove(e Entity)
}

// Store is a typed map-backed component store. Components are held by pointer
// so callers mutate them in place.
type Store[T any] struct {
	data map[Entity]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[Entity]*T, 64),
	}
}

func (s *Store[T]) Set(e Entity, c *T) {
	s.data[e] = c
}

func (s *Store[T]) Get(e Entity) (*T, bool) {
	c, ok := s.data[e]
	return c, ok
}

func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.data[e]
	return ok
}

func (s *Store[T]) Remove(e Entity) {
	delete(s.data, e)
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits every stored component. Adding or removing entries from inside
// fn is undefined; the physics layer defers mutation instead.
func (s *Store[T]) Each(fn func(Entity, *T)) {
	for e, c := range s.data {
		fn(e, c)
	}
}

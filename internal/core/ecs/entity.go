package ecs

// Entity packs a 32-bit slot index in the low bits and a 32-bit generation in
// the high bits. The generation bumps when the slot is freed, so handles held
// across a destroy go stale instead of aliasing the slot's next occupant.
type Entity uint64

func makeEntity(index uint32, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

func (e Entity) Index() uint32      { return uint32(e) }
func (e Entity) Generation() uint32 { return uint32(e >> 32) }

// Pool allocates entity handles with generational indices and a free list.
type Pool struct {
	generations []uint32
	free        []uint32
	next        uint32
}

func NewPool() *Pool {
	return &Pool{
		generations: make([]uint32, 0, 256),
		free:        make([]uint32, 0, 64),
	}
}

func (p *Pool) Create() Entity {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		return makeEntity(idx, p.generations[idx])
	}
	idx := p.next
	p.next++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return makeEntity(idx, p.generations[idx])
}

// Alive reports whether the handle still names a live entity.
func (p *Pool) Alive(e Entity) bool {
	idx := e.Index()
	if idx >= p.next {
		return false
	}
	return p.generations[idx] == e.Generation()
}

// Destroy frees the handle's slot. Stale handles are ignored.
func (p *Pool) Destroy(e Entity) {
	idx := e.Index()
	if idx >= p.next {
		return
	}
	if p.generations[idx] != e.Generation() {
		return
	}
	p.generations[idx]++
	p.free = append(p.free, idx)
}

// Len returns the number of live entities.
func (p *Pool) Len() int {
	return int(p.next) - len(p.free)
}

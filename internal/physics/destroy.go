package physics

import (
	"go.uber.org/zap"

	"github.com/quarry2d/quarry/internal/core/ecs"
)

// Destroyer is the slice of a simulation world the guard needs: liveness
// checks and immediate destruction through the component container.
type Destroyer interface {
	Alive(e ecs.Entity) bool
	DestroyNow(e ecs.Entity)
}

// destroyEntry keys the pending set as well as the queue: entity handles are
// only unique within one world, so two active worlds may hand out equal
// handle values.
type destroyEntry struct {
	world  Destroyer
	entity ecs.Entity
}

// DestroyGuard routes entity destruction around the backend's callback
// window. While a physics callback is on the stack the backend may still be
// iterating its contact graph, so destruction is queued and executed by the
// driver once dispatch for the sub-step has completed. Single simulation
// goroutine only; the depth counter is deliberately non-atomic.
type DestroyGuard struct {
	depth   int
	queue   []destroyEntry
	pending map[destroyEntry]struct{}
	log     *zap.Logger
}

func NewDestroyGuard(log *zap.Logger) *DestroyGuard {
	return &DestroyGuard{
		pending: make(map[destroyEntry]struct{}, 16),
		log:     log,
	}
}

// EnterContext marks the start of a physics-callback window. Calls nest.
func (g *DestroyGuard) EnterContext() {
	g.depth++
}

// ExitContext closes the innermost callback window. Callers pair it with
// EnterContext via defer so the depth stays balanced on every exit path.
func (g *DestroyGuard) ExitContext() {
	if g.depth > 0 {
		g.depth--
	}
}

// InContext reports whether a physics callback is currently on the stack.
func (g *DestroyGuard) InContext() bool {
	return g.depth > 0
}

// RequestDestroy destroys the entity immediately when outside a callback
// window, or queues it for the post-dispatch flush when inside one.
// Re-requesting an already queued entity is a no-op.
func (g *DestroyGuard) RequestDestroy(world Destroyer, e ecs.Entity) {
	if world == nil {
		return
	}
	if !world.Alive(e) {
		g.log.Debug("destroy request for dead entity ignored", zap.Uint64("entity", uint64(e)))
		return
	}
	if g.depth > 0 {
		g.add(world, e)
		return
	}
	world.DestroyNow(e)
}

// Enqueue queues the entity regardless of context depth, for callers that
// know a callback window is about to open.
func (g *DestroyGuard) Enqueue(world Destroyer, e ecs.Entity) {
	if world == nil {
		return
	}
	if !world.Alive(e) {
		g.log.Debug("enqueue of dead entity ignored", zap.Uint64("entity", uint64(e)))
		return
	}
	g.add(world, e)
}

func (g *DestroyGuard) add(world Destroyer, e ecs.Entity) {
	entry := destroyEntry{world: world, entity: e}
	if _, queued := g.pending[entry]; queued {
		return
	}
	g.pending[entry] = struct{}{}
	g.queue = append(g.queue, entry)
}

// IsPending reports whether the entity is queued for destruction in the given
// world.
func (g *DestroyGuard) IsPending(world Destroyer, e ecs.Entity) bool {
	_, ok := g.pending[destroyEntry{world: world, entity: e}]
	return ok
}

// Flush destroys every queued entity belonging to world. Entries queued for a
// different world are re-queued for that world's own flush. The queue is
// detached before iterating so destruction side effects that re-enter the
// guard start from a fresh queue. Entities that died before the flush are
// skipped silently.
func (g *DestroyGuard) Flush(world Destroyer) {
	if len(g.queue) == 0 {
		return
	}
	batch := g.queue
	g.queue = nil
	for _, entry := range batch {
		delete(g.pending, entry)
	}
	for _, entry := range batch {
		if entry.world != world {
			g.add(entry.world, entry.entity)
			continue
		}
		if !entry.world.Alive(entry.entity) {
			continue
		}
		entry.world.DestroyNow(entry.entity)
	}
}

// Package scene ties the component container, the physics driver, the
// destroy guard, and the event bus into one simulation world.
package scene

import (
	"go.uber.org/zap"

	"github.com/quarry2d/quarry/internal/component"
	"github.com/quarry2d/quarry/internal/core/ecs"
	"github.com/quarry2d/quarry/internal/core/event"
	"github.com/quarry2d/quarry/internal/physics"
)

// Scene owns the entity pool, the component stores, and the physics driver
// for one running simulation. All methods must be called from the single
// simulation goroutine.
type Scene struct {
	log *zap.Logger

	pool     *ecs.Pool
	registry *ecs.Registry

	transforms *ecs.Store[component.Transform]
	bodies     *ecs.Store[component.RigidBody]
	boxes      *ecs.Store[component.BoxCollider]
	circles    *ecs.Store[component.CircleCollider]

	guard  *physics.DestroyGuard
	driver *physics.Driver
	bus    *event.Bus

	callback physics.CollisionCallback
}

func New(cfg physics.Config, log *zap.Logger) *Scene {
	s := &Scene{
		log:        log,
		pool:       ecs.NewPool(),
		registry:   ecs.NewRegistry(),
		transforms: ecs.NewStore[component.Transform](),
		bodies:     ecs.NewStore[component.RigidBody](),
		boxes:      ecs.NewStore[component.BoxCollider](),
		circles:    ecs.NewStore[component.CircleCollider](),
		bus:        event.NewBus(),
	}
	s.registry.Register(s.transforms)
	s.registry.Register(s.bodies)
	s.registry.Register(s.boxes)
	s.registry.Register(s.circles)

	s.guard = physics.NewDestroyGuard(log)
	s.driver = physics.NewDriver(physics.Components{
		Pool:       s.pool,
		Transforms: s.transforms,
		Bodies:     s.bodies,
		Boxes:      s.boxes,
		Circles:    s.circles,
	}, s, s.guard, cfg, log)
	s.driver.SetCollisionCallback(s.onCollision)

	return s
}

// CreateEntity allocates a fresh entity handle.
func (s *Scene) CreateEntity() ecs.Entity {
	return s.pool.Create()
}

// Alive reports whether the handle names a live entity.
func (s *Scene) Alive(e ecs.Entity) bool {
	return s.pool.Alive(e)
}

// DestroyEntity destroys an entity, or defers the destruction when a physics
// callback is on the stack. This is the only destruction path application
// code and scripts should use.
func (s *Scene) DestroyEntity(e ecs.Entity) {
	s.guard.RequestDestroy(s, e)
}

// DestroyNow performs the immediate teardown: physics binding first, then
// component data, then the handle. Called by the destroy guard; application
// code goes through DestroyEntity instead.
func (s *Scene) DestroyNow(e ecs.Entity) {
	if !s.pool.Alive(e) {
		return
	}
	s.driver.DestroyBody(e)
	s.registry.RemoveAll(e)
	s.pool.Destroy(e)
}

// Play attaches the physics driver; Stop detaches it. A stopped scene keeps
// its entities but no longer simulates.
func (s *Scene) Play() {
	s.driver.Attach()
}

func (s *Scene) Stop() {
	s.driver.Detach()
}

// Update advances the simulation by dt seconds of real time.
func (s *Scene) Update(dt float64) {
	s.driver.Update(dt)
}

// SetCollisionCallback registers the application-level collision consumer.
// The scene also mirrors every event onto the bus regardless.
func (s *Scene) SetCollisionCallback(cb physics.CollisionCallback) {
	s.callback = cb
}

func (s *Scene) onCollision(ev physics.CollisionEvent, kind physics.EventType) {
	if kind == physics.ContactBegin {
		event.Emit(s.bus, event.ContactBegan{CollisionEvent: ev})
	} else {
		event.Emit(s.bus, event.ContactEnded{CollisionEvent: ev})
	}
	if s.callback != nil {
		s.callback(ev, kind)
	}
}

// Component store accessors. Systems mutate components through these; the
// stores are registered with the scene's registry so destruction clears them.

func (s *Scene) Transforms() *ecs.Store[component.Transform] { return s.transforms }
func (s *Scene) Bodies() *ecs.Store[component.RigidBody]     { return s.bodies }
func (s *Scene) Boxes() *ecs.Store[component.BoxCollider]    { return s.boxes }
func (s *Scene) Circles() *ecs.Store[component.CircleCollider] {
	return s.circles
}

// Driver exposes the physics configuration surface.
func (s *Scene) Driver() *physics.Driver { return s.driver }

// Guard exposes the deferred destruction guard, for callers that know they
// are about to enter a callback window.
func (s *Scene) Guard() *physics.DestroyGuard { return s.guard }

// Bus returns the scene's frame-delayed event bus.
func (s *Scene) Bus() *event.Bus { return s.bus }

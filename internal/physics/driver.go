// Package physics advances a deterministic rigid-body simulation at a fixed
// timestep regardless of the host frame rate, produces interpolated render
// poses, and delivers collision events safely to application code that may
// request entity destruction from inside the delivery.
package physics

import (
	"math"

	"github.com/ByteArena/box2d"
	"go.uber.org/zap"

	"github.com/quarry2d/quarry/internal/component"
	"github.com/quarry2d/quarry/internal/core/ecs"
)

// Components groups the container stores the driver reads and writes.
type Components struct {
	Pool       *ecs.Pool
	Transforms *ecs.Store[component.Transform]
	Bodies     *ecs.Store[component.RigidBody]
	Boxes      *ecs.Store[component.BoxCollider]
	Circles    *ecs.Store[component.CircleCollider]
}

// binding pairs an entity with its backend body and carries the two most
// recent authoritative poses. prev/curr are consumed only by the render-pose
// interpolation; the simulation itself never reads them.
type binding struct {
	body *box2d.B2Body

	prevX, prevY, prevAngle float64
	currX, currY, currAngle float64
}

// Driver owns the backend world, the body bindings, and the fixed-timestep
// accumulator. All methods must be called from the single simulation
// goroutine.
type Driver struct {
	cfg   Config
	comps Components
	owner Destroyer
	guard *DestroyGuard
	log   *zap.Logger

	world    *box2d.B2World
	listener *contactBuffer
	bindings map[ecs.Entity]*binding
	callback CollisionCallback

	accumulator float64
	stepCount   uint64
}

func NewDriver(comps Components, owner Destroyer, guard *DestroyGuard, cfg Config, log *zap.Logger) *Driver {
	return &Driver{
		cfg:      cfg,
		comps:    comps,
		owner:    owner,
		guard:    guard,
		log:      log,
		bindings: make(map[ecs.Entity]*binding, 64),
	}
}

// Attach creates the backend world and binds every entity that already
// qualifies. Gravity comes from the config and stays mutable afterwards.
func (d *Driver) Attach() {
	if d.world != nil {
		return
	}
	world := box2d.MakeB2World(box2d.MakeB2Vec2(d.cfg.GravityX, d.cfg.GravityY))
	d.world = &world
	d.listener = &contactBuffer{}
	d.world.SetContactListener(d.listener)
	d.accumulator = 0
	d.syncBindings()
}

// Detach tears down every binding and the backend world. Update becomes a
// no-op until the next Attach.
func (d *Driver) Detach() {
	if d.world == nil {
		return
	}
	for e := range d.bindings {
		d.DestroyBody(e)
	}
	d.world.Destroy()
	d.world = nil
	d.listener = nil
	d.accumulator = 0
}

// Attached reports whether a backend world exists.
func (d *Driver) Attached() bool {
	return d.world != nil
}

// Steps returns the number of fixed sub-steps run since the driver was
// created.
func (d *Driver) Steps() uint64 {
	return d.stepCount
}

// SetGravity changes the backend gravity vector, effective immediately.
func (d *Driver) SetGravity(x, y float64) {
	d.cfg.GravityX, d.cfg.GravityY = x, y
	if d.world != nil {
		d.world.SetGravity(box2d.MakeB2Vec2(x, y))
	}
}

// Gravity returns the current gravity vector.
func (d *Driver) Gravity() (x, y float64) {
	return d.cfg.GravityX, d.cfg.GravityY
}

// SetFixedTimestep changes the fixed sub-step length. Non-positive values are
// rejected.
func (d *Driver) SetFixedTimestep(seconds float64) {
	if seconds <= 0 {
		d.log.Warn("ignoring non-positive fixed timestep", zap.Float64("seconds", seconds))
		return
	}
	d.cfg.FixedTimestep = seconds
}

// SetMaxStepsPerFrame changes the spiral-of-death cap. Values below one are
// rejected.
func (d *Driver) SetMaxStepsPerFrame(n int) {
	if n < 1 {
		d.log.Warn("ignoring max steps per frame below one", zap.Int("steps", n))
		return
	}
	d.cfg.MaxStepsPerFrame = n
}

// SetInterpolationEnabled toggles render-pose interpolation. When disabled
// the transform snaps to the latest authoritative state each frame.
func (d *Driver) SetInterpolationEnabled(on bool) {
	d.cfg.Interpolation = on
}

// SetCollisionCallback registers the single consumer of collision events.
// With no callback registered, events are dropped after the step.
func (d *Driver) SetCollisionCallback(cb CollisionCallback) {
	d.callback = cb
}

// Update advances the simulation by dt seconds of real time: it binds new
// bodies, runs as many fixed sub-steps as the accumulator covers (bounded by
// the spiral-of-death clamp), and writes interpolated render poses. A driver
// without an attached world does nothing.
func (d *Driver) Update(dt float64) {
	if d.world == nil {
		return
	}

	d.syncBindings()

	d.accumulator += dt
	ceiling := d.cfg.FixedTimestep * float64(d.cfg.MaxStepsPerFrame)
	if d.accumulator > ceiling {
		// Falling behind: run exactly the cap and discard the excess real
		// time, trading some determinism for forward progress.
		d.log.Warn("simulation falling behind, clamping accumulator",
			zap.Float64("accumulated", d.accumulator),
			zap.Float64("ceiling", ceiling))
		for i := 0; i < d.cfg.MaxStepsPerFrame; i++ {
			d.substep()
		}
		d.accumulator = 0
	} else {
		for d.accumulator >= d.cfg.FixedTimestep {
			d.substep()
			d.accumulator -= d.cfg.FixedTimestep
		}
	}

	d.writeRenderPoses()
}

// substep runs one fixed sub-step. The ordering is the core correctness
// contract: entity destruction never happens between the backend step and
// event dispatch, and never while the backend is iterating.
func (d *Driver) substep() {
	d.stepCount++
	for _, b := range d.bindings {
		b.prevX, b.prevY, b.prevAngle = b.currX, b.currY, b.currAngle
	}

	d.world.Step(d.cfg.FixedTimestep, d.cfg.VelocityIterations, d.cfg.PositionIterations)

	d.dispatchGuarded()
	d.guard.Flush(d.owner)

	for e, b := range d.bindings {
		if !d.comps.Pool.Alive(e) {
			continue
		}
		pos := b.body.GetPosition()
		b.currX, b.currY, b.currAngle = pos.X, pos.Y, b.body.GetAngle()
	}
}

func (d *Driver) dispatchGuarded() {
	d.guard.EnterContext()
	defer d.guard.ExitContext()
	d.dispatchEvents()
}

// dispatchEvents drains the contact buffer and delivers each event from both
// participants' perspectives. It runs strictly after Step returns, inside the
// guard's callback context, so destruction requested by the callback is
// queued rather than executed. Both entities are re-validated before each
// delivery because the first call may have requested (or an earlier flush
// performed) destruction of one of them.
func (d *Driver) dispatchEvents() {
	batch := d.listener.take()
	if len(batch) == 0 || d.callback == nil {
		return
	}
	for i := range batch {
		pc := &batch[i]
		if !d.validPair(pc) {
			continue
		}
		d.deliver(pc.view(false), pc.kind)
		if !d.validPair(pc) {
			continue
		}
		d.deliver(pc.view(true), pc.kind)
	}
}

func (d *Driver) validPair(pc *pendingContact) bool {
	if d.guard.IsPending(d.owner, pc.entityA) || d.guard.IsPending(d.owner, pc.entityB) {
		return false
	}
	return d.comps.Pool.Alive(pc.entityA) && d.comps.Pool.Alive(pc.entityB)
}

// deliver contains a panicking callback; nothing may unwind through the step
// loop.
func (d *Driver) deliver(ev CollisionEvent, kind EventType) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("collision callback panicked",
				zap.Any("panic", r),
				zap.Uint64("self", uint64(ev.Self)),
				zap.Uint64("other", uint64(ev.Other)))
		}
	}()
	d.callback(ev, kind)
}

// syncBindings creates bodies for newly qualifying entities and tears down
// bindings whose entity died or lost its rigid body. There is no component-
// removal signal in the container; the driver polls.
func (d *Driver) syncBindings() {
	var stale []ecs.Entity
	for e := range d.bindings {
		if !d.comps.Pool.Alive(e) || !d.comps.Bodies.Has(e) {
			stale = append(stale, e)
		}
	}
	for _, e := range stale {
		d.DestroyBody(e)
	}

	var fresh []ecs.Entity
	ecs.View2(d.comps.Transforms, d.comps.Bodies, func(e ecs.Entity, _ *component.Transform, _ *component.RigidBody) {
		if _, bound := d.bindings[e]; !bound {
			fresh = append(fresh, e)
		}
	})
	for _, e := range fresh {
		d.createBody(e)
	}
}

// createBody builds the backend body and fixtures for an entity and seeds its
// interpolation state from the freshly created pose.
func (d *Driver) createBody(e ecs.Entity) {
	t, ok := d.comps.Transforms.Get(e)
	if !ok {
		return
	}
	rb, ok := d.comps.Bodies.Get(e)
	if !ok {
		return
	}

	def := box2d.MakeB2BodyDef()
	def.Type = backendBodyType(rb.Type)
	def.Position = box2d.MakeB2Vec2(t.X, t.Y)
	def.Angle = t.Angle
	def.LinearVelocity = box2d.MakeB2Vec2(rb.VelocityX, rb.VelocityY)
	def.AngularVelocity = rb.AngularVelocity
	def.LinearDamping = rb.LinearDamping
	def.AngularDamping = rb.AngularDamping
	def.FixedRotation = rb.FixedRotation
	def.GravityScale = rb.GravityScale
	def.UserData = encodeEntity(e)

	body := d.world.CreateBody(&def)
	rb.Body = body

	fixtureIndex := 0
	if bc, ok := d.comps.Boxes.Get(e); ok {
		bc.Fixture = d.createBoxFixture(body, t, bc, fixtureIndex)
		fixtureIndex++
	}
	if cc, ok := d.comps.Circles.Get(e); ok {
		cc.Fixture = d.createCircleFixture(body, t, cc, fixtureIndex)
		fixtureIndex++
	}
	if fixtureIndex == 0 && rb.Type == component.BodyDynamic {
		// A dynamic body without fixtures is massless and useless to the
		// solver; synthesize a box sized from the transform scale.
		d.createDefaultFixture(body, t)
		d.log.Debug("synthesized default fixture for dynamic body without colliders",
			zap.Uint64("entity", uint64(e)))
	}

	pos := body.GetPosition()
	angle := body.GetAngle()
	d.bindings[e] = &binding{
		body:  body,
		prevX: pos.X, prevY: pos.Y, prevAngle: angle,
		currX: pos.X, currY: pos.Y, currAngle: angle,
	}
}

func (d *Driver) createBoxFixture(body *box2d.B2Body, t *component.Transform, bc *component.BoxCollider, index int) *box2d.B2Fixture {
	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBoxFromCenterAndAngle(
		bc.HalfWidth*scaleOrOne(t.ScaleX),
		bc.HalfHeight*scaleOrOne(t.ScaleY),
		box2d.MakeB2Vec2(bc.OffsetX, bc.OffsetY),
		0,
	)

	def := box2d.MakeB2FixtureDef()
	def.Shape = &shape
	def.Density = bc.Density
	def.Friction = bc.Friction
	def.Restitution = bc.Restitution
	def.IsSensor = bc.Sensor
	def.UserData = index
	return body.CreateFixtureFromDef(&def)
}

func (d *Driver) createCircleFixture(body *box2d.B2Body, t *component.Transform, cc *component.CircleCollider, index int) *box2d.B2Fixture {
	shape := box2d.MakeB2CircleShape()
	shape.M_radius = cc.Radius * scaleOrOne(t.ScaleX)
	shape.M_p = box2d.MakeB2Vec2(cc.OffsetX, cc.OffsetY)

	def := box2d.MakeB2FixtureDef()
	def.Shape = &shape
	def.Density = cc.Density
	def.Friction = cc.Friction
	def.Restitution = cc.Restitution
	def.IsSensor = cc.Sensor
	def.UserData = index
	return body.CreateFixtureFromDef(&def)
}

func (d *Driver) createDefaultFixture(body *box2d.B2Body, t *component.Transform) {
	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(scaleOrOne(t.ScaleX)/2, scaleOrOne(t.ScaleY)/2)

	def := box2d.MakeB2FixtureDef()
	def.Shape = &shape
	def.Density = 1
	def.Friction = 0.5
	def.UserData = 0
	body.CreateFixtureFromDef(&def)
}

// DestroyBody tears down the backend body for e and clears the runtime
// handles stored on its components, which may outlive the binding. Safe to
// call for unbound entities.
func (d *Driver) DestroyBody(e ecs.Entity) {
	b, ok := d.bindings[e]
	if !ok {
		return
	}
	delete(d.bindings, e)
	if d.world != nil && b.body != nil {
		d.world.DestroyBody(b.body)
	}
	if rb, ok := d.comps.Bodies.Get(e); ok {
		rb.Body = nil
	}
	if bc, ok := d.comps.Boxes.Get(e); ok {
		bc.Fixture = nil
	}
	if cc, ok := d.comps.Circles.Get(e); ok {
		cc.Fixture = nil
	}
}

// Bound reports whether the entity currently has a backend body.
func (d *Driver) Bound(e ecs.Entity) bool {
	_, ok := d.bindings[e]
	return ok
}

// writeRenderPoses blends the last two authoritative poses into the
// render-visible transform. The blend never touches the simulation state;
// static bodies are left alone.
func (d *Driver) writeRenderPoses() {
	alpha := 1.0
	if d.cfg.Interpolation && d.cfg.FixedTimestep > 0 {
		alpha = d.accumulator / d.cfg.FixedTimestep
	}
	for e, b := range d.bindings {
		rb, ok := d.comps.Bodies.Get(e)
		if !ok || rb.Type == component.BodyStatic {
			continue
		}
		t, ok := d.comps.Transforms.Get(e)
		if !ok {
			continue
		}
		t.X = lerp(b.prevX, b.currX, alpha)
		t.Y = lerp(b.prevY, b.currY, alpha)
		t.Angle = b.prevAngle + alpha*wrapAngle(b.currAngle-b.prevAngle)
	}
}

func backendBodyType(t component.BodyType) uint8 {
	switch t {
	case component.BodyKinematic:
		return box2d.B2BodyType.B2_kinematicBody
	case component.BodyDynamic:
		return box2d.B2BodyType.B2_dynamicBody
	}
	return box2d.B2BodyType.B2_staticBody
}

func scaleOrOne(s float64) float64 {
	if s == 0 {
		return 1
	}
	return math.Abs(s)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// wrapAngle maps a rotation delta into (-π, π] so interpolation takes the
// short way around.
func wrapAngle(delta float64) float64 {
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta <= -math.Pi {
		delta += 2 * math.Pi
	}
	return delta
}

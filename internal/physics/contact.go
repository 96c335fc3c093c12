package physics

import (
	"github.com/ByteArena/box2d"

	"github.com/quarry2d/quarry/internal/core/ecs"
)

// pendingContact is one buffered contact, recorded from the backend's
// perspective with A-to-B orientation. It never survives past the dispatch
// that follows the owning Step call.
type pendingContact struct {
	entityA, entityB   ecs.Entity
	normalX, normalY   float64
	pointX, pointY     float64
	fixtureA, fixtureB int
	trigger            bool
	kind               EventType
}

// view builds the self-relative event for one participant. The recorded
// normal points from A toward B, so B's view negates it.
func (pc *pendingContact) view(forB bool) CollisionEvent {
	if !forB {
		return CollisionEvent{
			Self: pc.entityA, Other: pc.entityB,
			NormalX: pc.normalX, NormalY: pc.normalY,
			PointX: pc.pointX, PointY: pc.pointY,
			SelfFixture: pc.fixtureA, OtherFixture: pc.fixtureB,
			Trigger: pc.trigger,
		}
	}
	return CollisionEvent{
		Self: pc.entityB, Other: pc.entityA,
		NormalX: -pc.normalX, NormalY: -pc.normalY,
		PointX: pc.pointX, PointY: pc.pointY,
		SelfFixture: pc.fixtureB, OtherFixture: pc.fixtureA,
		Trigger: pc.trigger,
	}
}

// contactBuffer implements the backend's contact listener. The callbacks run
// nested inside B2World.Step while the backend is iterating its contact
// graph, so they only decode and append; no entity, scene, or driver state is
// touched until the driver dispatches after Step returns.
type contactBuffer struct {
	pending []pendingContact
}

var _ box2d.B2ContactListenerInterface = (*contactBuffer)(nil)

func (cb *contactBuffer) BeginContact(contact box2d.B2ContactInterface) {
	cb.record(contact, ContactBegin)
}

func (cb *contactBuffer) EndContact(contact box2d.B2ContactInterface) {
	cb.record(contact, ContactEnd)
}

func (cb *contactBuffer) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {
}

func (cb *contactBuffer) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
}

func (cb *contactBuffer) record(contact box2d.B2ContactInterface, kind EventType) {
	fixtureA := contact.GetFixtureA()
	fixtureB := contact.GetFixtureB()
	if fixtureA == nil || fixtureB == nil {
		return
	}
	entityA, okA := decodeEntity(fixtureA.GetBody().GetUserData())
	entityB, okB := decodeEntity(fixtureB.GetBody().GetUserData())
	if !okA || !okB {
		return
	}

	pc := pendingContact{
		entityA:  entityA,
		entityB:  entityB,
		fixtureA: decodeFixtureIndex(fixtureA.GetUserData()),
		fixtureB: decodeFixtureIndex(fixtureB.GetUserData()),
		trigger:  fixtureA.IsSensor() || fixtureB.IsSensor(),
		kind:     kind,
	}
	if kind == ContactBegin {
		// End events leave the geometry zeroed; the manifold is stale once
		// the fixtures have separated.
		worldManifold := box2d.MakeB2WorldManifold()
		contact.GetWorldManifold(&worldManifold)
		pc.normalX = worldManifold.Normal.X
		pc.normalY = worldManifold.Normal.Y
		pc.pointX = worldManifold.Points[0].X
		pc.pointY = worldManifold.Points[0].Y
	}
	cb.pending = append(cb.pending, pc)
}

// take detaches the buffered events. Re-entrant buffering during dispatch
// (the backend reporting EndContact while a queued destruction tears a body
// down) lands in a fresh buffer.
func (cb *contactBuffer) take() []pendingContact {
	batch := cb.pending
	cb.pending = nil
	return batch
}

// Len reports the number of buffered events.
func (cb *contactBuffer) Len() int {
	return len(cb.pending)
}

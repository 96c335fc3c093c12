package physics

import "github.com/quarry2d/quarry/internal/core/ecs"

// EventType distinguishes a contact starting from a contact ending.
type EventType int

const (
	ContactBegin EventType = iota
	ContactEnd
)

func (t EventType) String() string {
	if t == ContactBegin {
		return "begin"
	}
	return "end"
}

// CollisionEvent is the self-relative view of one contact, delivered once per
// participant: Self is the receiving entity and the normal points from Self
// toward Other. Geometry fields are zero for ContactEnd events because the
// contact manifold is no longer valid by the time the contact separates.
type CollisionEvent struct {
	Self  ecs.Entity
	Other ecs.Entity

	NormalX, NormalY float64
	PointX, PointY   float64

	SelfFixture  int
	OtherFixture int

	// Trigger is set when either fixture is a sensor: the contact reports
	// overlap without a physical response.
	Trigger bool
}

// CollisionCallback receives every contact event after a fixed sub-step.
// It runs inside the destroy guard's callback context, so destruction
// requested from inside it is deferred until dispatch completes.
type CollisionCallback func(ev CollisionEvent, kind EventType)

// Body user data encodes the owning entity as the handle plus one, so the
// zero value stays distinguishable from the first handle the pool issues.
func encodeEntity(e ecs.Entity) uint64 {
	return uint64(e) + 1
}

func decodeEntity(userData interface{}) (ecs.Entity, bool) {
	v, ok := userData.(uint64)
	if !ok || v == 0 {
		return 0, false
	}
	return ecs.Entity(v - 1), true
}

// Fixture user data carries the small per-body fixture index assigned at
// creation time.
func decodeFixtureIndex(userData interface{}) int {
	if idx, ok := userData.(int); ok {
		return idx
	}
	return 0
}

package component

import "github.com/ByteArena/box2d"

// BodyType selects how the backend integrates a body.
type BodyType int

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	}
	return "unknown"
}

// RigidBody declares that an entity participates in the physics simulation.
// Body is the runtime backend handle, owned by the physics driver; it is nil
// until the driver binds the entity and nil again after the binding is torn
// down.
type RigidBody struct {
	Type           BodyType
	FixedRotation  bool
	GravityScale   float64
	LinearDamping  float64
	AngularDamping float64

	// Initial velocities, applied once at body creation.
	VelocityX       float64
	VelocityY       float64
	AngularVelocity float64

	Body *box2d.B2Body
}

func NewRigidBody(t BodyType) *RigidBody {
	return &RigidBody{Type: t, GravityScale: 1}
}

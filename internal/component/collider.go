package component

import "github.com/ByteArena/box2d"

// Material holds the surface properties shared by every collider kind.
// RestitutionThreshold is kept for scene data compatibility; the current
// backend applies a single global bounce velocity threshold instead of a
// per-fixture one.
type Material struct {
	Density              float64
	Friction             float64
	Restitution          float64
	RestitutionThreshold float64
	Sensor               bool
}

// DefaultMaterial matches the backend's fixture defaults plus unit density.
func DefaultMaterial() Material {
	return Material{Density: 1, Friction: 0.5, RestitutionThreshold: 0.5}
}

// BoxCollider is an axis-aligned box fixture in body-local space. Half extents
// are multiplied by the transform scale at body creation. Fixture is the
// runtime backend handle, owned by the physics driver.
type BoxCollider struct {
	OffsetX, OffsetY      float64
	HalfWidth, HalfHeight float64
	Material

	Fixture *box2d.B2Fixture
}

func NewBoxCollider(halfW, halfH float64) *BoxCollider {
	return &BoxCollider{HalfWidth: halfW, HalfHeight: halfH, Material: DefaultMaterial()}
}

// CircleCollider is a circle fixture in body-local space. The radius is
// multiplied by the transform's X scale at body creation. Fixture is the
// runtime backend handle, owned by the physics driver.
type CircleCollider struct {
	OffsetX, OffsetY float64
	Radius           float64
	Material

	Fixture *box2d.B2Fixture
}

func NewCircleCollider(radius float64) *CircleCollider {
	return &CircleCollider{Radius: radius, Material: DefaultMaterial()}
}

package component

// Transform is the render-visible pose of an entity. For entities with a
// rigid body the physics driver overwrites X/Y/Angle every frame with an
// interpolated pose; the authoritative state lives in the backend body.
type Transform struct {
	X, Y   float64
	Angle  float64 // radians
	ScaleX float64
	ScaleY float64
}

func NewTransform(x, y float64) *Transform {
	return &Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

package system

import (
	"time"

	coresys "github.com/quarry2d/quarry/internal/core/system"
	"github.com/quarry2d/quarry/internal/scene"
)

// PhysicsSystem advances the scene's physics driver once per frame.
// Phase 1 (Update).
type PhysicsSystem struct {
	scene *scene.Scene
}

func NewPhysicsSystem(sc *scene.Scene) *PhysicsSystem {
	return &PhysicsSystem{scene: sc}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PhysicsSystem) Update(dt time.Duration) {
	s.scene.Update(dt.Seconds())
}

package event

import "github.com/quarry2d/quarry/internal/physics"

// ContactBegan and ContactEnded mirror the physics driver's collision
// callback onto the frame-delayed bus for consumers that do not need
// same-substep delivery, such as the audit log recorder.

type ContactBegan struct {
	physics.CollisionEvent
}

type ContactEnded struct {
	physics.CollisionEvent
}

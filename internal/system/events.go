package system

import (
	"time"

	"github.com/quarry2d/quarry/internal/core/event"
	coresys "github.com/quarry2d/quarry/internal/core/system"
)

// EventDispatchSystem rotates the bus buffers and delivers last frame's
// events to their subscribers. Phase 0 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

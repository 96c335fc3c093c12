package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhasePreUpdate  Phase = iota // 0: deliver last frame's events
	PhaseUpdate                  // 1: simulation (physics driver)
	PhasePostUpdate              // 2: reactions to this frame's state
	PhasePersist                 // 3: batched sinks (audit log flush)
	PhaseCleanup                 // 4: destroy leftovers, reset scratch state
)

// System is the interface every engine system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

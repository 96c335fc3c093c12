package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quarry2d/quarry/internal/core/event"
	coresys "github.com/quarry2d/quarry/internal/core/system"
	"github.com/quarry2d/quarry/internal/persist"
)

// RecorderSystem stages collision events from the bus and flushes them to the
// contact audit log every flushTicks frames. Phase 3 (Persist). A failed
// flush keeps the batch for the next interval.
type RecorderSystem struct {
	repo       *persist.ContactLogRepo
	log        *zap.Logger
	sceneName  string
	flushTicks int

	staged []persist.ContactEntry
	ticks  int
}

func NewRecorderSystem(bus *event.Bus, repo *persist.ContactLogRepo, sceneName string, flushTicks int, log *zap.Logger) *RecorderSystem {
	if flushTicks < 1 {
		flushTicks = 1
	}
	s := &RecorderSystem{
		repo:       repo,
		log:        log,
		sceneName:  sceneName,
		flushTicks: flushTicks,
	}
	event.Subscribe(bus, func(ev event.ContactBegan) {
		s.staged = append(s.staged, persist.ContactEntry{Kind: "begin", Event: ev.CollisionEvent})
	})
	event.Subscribe(bus, func(ev event.ContactEnded) {
		s.staged = append(s.staged, persist.ContactEntry{Kind: "end", Event: ev.CollisionEvent})
	})
	return s
}

func (s *RecorderSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *RecorderSystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks%s.flushTicks != 0 {
		return
	}
	s.Flush()
}

// Flush writes the staged batch immediately. Called on the flush interval and
// once more at shutdown.
func (s *RecorderSystem) Flush() {
	if len(s.staged) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.InsertBatch(ctx, s.sceneName, s.staged); err != nil {
		s.log.Error("contact log flush failed", zap.Error(err), zap.Int("staged", len(s.staged)))
		return
	}
	s.staged = s.staged[:0]
}

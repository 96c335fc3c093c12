package persist

import (
	"context"
	"fmt"

	"github.com/quarry2d/quarry/internal/physics"
)

// ContactEntry is one collision event staged for the audit log.
type ContactEntry struct {
	Kind  string
	Event physics.CollisionEvent
}

type ContactLogRepo struct {
	db *DB
}

func NewContactLogRepo(db *DB) *ContactLogRepo {
	return &ContactLogRepo{db: db}
}

// InsertBatch writes a batch of contact entries in a single transaction.
// Returns nil on success; on failure the caller keeps its batch and retries
// on the next flush.
func (r *ContactLogRepo) InsertBatch(ctx context.Context, scene string, entries []ContactEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("contact log begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		ev := e.Event
		if _, err := tx.Exec(ctx,
			`INSERT INTO contact_log (scene, kind, entity_self, entity_other, fixture_self, fixture_other,
			                          normal_x, normal_y, point_x, point_y, is_trigger)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			scene, e.Kind, int64(ev.Self), int64(ev.Other), ev.SelfFixture, ev.OtherFixture,
			ev.NormalX, ev.NormalY, ev.PointX, ev.PointY, ev.Trigger,
		); err != nil {
			return fmt.Errorf("contact log insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

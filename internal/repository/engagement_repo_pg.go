package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EngagementRepository maintains the wishlist and recently-viewed rows that
// become stale once a user books the event. Callers treat these writes as
// best-effort.
type EngagementRepository interface {
	ClearForUserEvent(ctx context.Context, userID, eventID string) error
}

type PGEngagementRepository struct {
	db *pgxpool.Pool
}

func NewEngagementRepository(db *pgxpool.Pool) EngagementRepository {
	return &PGEngagementRepository{db: db}
}

func (r *PGEngagementRepository) ClearForUserEvent(ctx context.Context, userID, eventID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM wishlist WHERE user_id=$1 AND event_id=$2`, userID, eventID); err != nil {
		return &PersistenceError{Op: "clear wishlist", Err: err}
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM recently_viewed WHERE user_id=$1 AND event_id=$2`, userID, eventID); err != nil {
		return &PersistenceError{Op: "clear recently viewed", Err: err}
	}
	return nil
}

var _ EngagementRepository = (*PGEngagementRepository)(nil)

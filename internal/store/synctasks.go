package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SyncTaskRepository records when each sync type last completed.
type SyncTaskRepository struct {
	pool *pgxpool.Pool
}

// NewSyncTaskRepository creates a new sync task repository.
func NewSyncTaskRepository(pool *pgxpool.Pool) *SyncTaskRepository {
	return &SyncTaskRepository{pool: pool}
}

// LastSyncTime returns when the given sync type last completed, or the
// zero time if it has never run.
func (r *SyncTaskRepository) LastSyncTime(ctx context.Context, syncType string) (time.Time, error) {
	var t time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT last_sync_time FROM sync_tasks WHERE sync_type = $1`, syncType,
	).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// MarkSynced records a completed sync at the given time.
func (r *SyncTaskRepository) MarkSynced(ctx context.Context, syncType string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sync_tasks (sync_type, last_sync_time)
		VALUES ($1, $2)
		ON CONFLICT (sync_type) DO UPDATE SET last_sync_time = EXCLUDED.last_sync_time
	`, syncType, at)
	return err
}

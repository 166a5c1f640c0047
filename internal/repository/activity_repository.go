package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/feedback-service/internal/domain"
)

// ActivityRepository stores the append-only audit trail. It implements
// workflow.ActivityRecorder; there is no update or delete path.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository builds repository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Append inserts one record. The seq column preserves call order even when
// records within one operation share a timestamp.
func (r *ActivityRepository) Append(ctx context.Context, record *domain.ActivityRecord) error {
	const query = `
        INSERT INTO post_activity (id, post_id, type, actor_type, actor_id, metadata, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.PostID,
		record.Type,
		record.Actor.Type,
		record.Actor.ID,
		record.Metadata,
		record.CreatedAt,
	)
	return err
}

// ListFor returns all records for a post in append order.
func (r *ActivityRepository) ListFor(ctx context.Context, postID string) ([]domain.ActivityRecord, error) {
	const query = `
        SELECT id, post_id, type, actor_type, actor_id, metadata, created_at
        FROM post_activity WHERE post_id=$1 ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityRecord
	for rows.Next() {
		var record domain.ActivityRecord
		if err := rows.Scan(
			&record.ID,
			&record.PostID,
			&record.Type,
			&record.Actor.Type,
			&record.Actor.ID,
			&record.Metadata,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Increment(ctx context.Context, userID string, day int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO activity (user_id, day, count) VALUES ($1, $2, 1)
		ON CONFLICT (user_id, day) DO UPDATE SET count = activity.count + 1
		RETURNING count`, userID, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment activity: %w", err)
	}
	return count, nil
}

func (r *ActivityRepository) Counts(ctx context.Context, userID string) (map[int64]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT day, count FROM activity WHERE user_id=$1`, userID)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			day   int64
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		counts[day] = count
	}
	return counts, rows.Err()
}

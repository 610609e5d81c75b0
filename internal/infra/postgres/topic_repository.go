package postgres

import (
	"context"
	"fmt"

	"dsa-tracker/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

type TopicRepository struct {
	pool *pgxpool.Pool
}

func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

func (r *TopicRepository) List(ctx context.Context, p domain.Partition) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT label FROM topics WHERE owner=$1 ORDER BY label`, p.Key())
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (r *TopicRepository) AddIfAbsent(ctx context.Context, p domain.Partition, slug, label string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO topics (owner, slug, label) VALUES ($1, $2, $3) ON CONFLICT (owner, slug) DO NOTHING`,
		p.Key(), slug, label)
	if err != nil {
		return false, fmt.Errorf("insert topic: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

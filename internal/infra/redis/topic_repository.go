package redis

import (
	"context"
	"sort"

	"dsa-tracker/internal/domain"
	"github.com/redis/go-redis/v9"
)

// TopicRepository stores each pool as HSET topics:{owner} {slug} {label}.
// HSETNX gives insert-if-absent without a read.
type TopicRepository struct {
	client *redis.Client
}

func NewTopicRepository(client *redis.Client) *TopicRepository {
	return &TopicRepository{client: client}
}

func (r *TopicRepository) List(ctx context.Context, p domain.Partition) ([]string, error) {
	pool, err := r.client.HGetAll(ctx, topicsKey(p)).Result()
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(pool))
	for _, label := range pool {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

func (r *TopicRepository) AddIfAbsent(ctx context.Context, p domain.Partition, slug, label string) (bool, error) {
	return r.client.HSetNX(ctx, topicsKey(p), slug, label).Result()
}

func topicsKey(p domain.Partition) string {
	return "topics:" + p.Key()
}

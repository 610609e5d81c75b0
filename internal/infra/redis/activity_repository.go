package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ActivityRepository keeps HINCRBY activity:{userID} {dayMillis} counters.
type ActivityRepository struct {
	client *redis.Client
}

func NewActivityRepository(client *redis.Client) *ActivityRepository {
	return &ActivityRepository{client: client}
}

func (r *ActivityRepository) Increment(ctx context.Context, userID string, day int64) (int, error) {
	n, err := r.client.HIncrBy(ctx, activityKey(userID), strconv.FormatInt(day, 10), 1).Result()
	return int(n), err
}

func (r *ActivityRepository) Counts(ctx context.Context, userID string) (map[int64]int, error) {
	raw, err := r.client.HGetAll(ctx, activityKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int, len(raw))
	for field, value := range raw {
		day, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		counts[day] = n
	}
	return counts, nil
}

func activityKey(userID string) string {
	return "activity:" + userID
}

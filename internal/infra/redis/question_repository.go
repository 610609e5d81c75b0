package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dsa-tracker/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// QuestionRepository keeps one hash per partition:
//
//	HSET questions:{owner} {questionID} {json}
type QuestionRepository struct {
	client *redis.Client
}

func NewQuestionRepository(client *redis.Client) *QuestionRepository {
	return &QuestionRepository{client: client}
}

func (r *QuestionRepository) Create(ctx context.Context, p domain.Partition, q domain.Question) (domain.Question, error) {
	q.ID = uuid.NewString()
	doc, err := json.Marshal(q)
	if err != nil {
		return domain.Question{}, fmt.Errorf("marshal question: %w", err)
	}
	ok, err := r.client.HSetNX(ctx, questionsKey(p), q.ID, doc).Result()
	if err != nil {
		return domain.Question{}, err
	}
	if !ok {
		return domain.Question{}, fmt.Errorf("question id collision: %s", q.ID)
	}
	return q, nil
}

func (r *QuestionRepository) Get(ctx context.Context, p domain.Partition, id string) (domain.Question, error) {
	doc, err := r.client.HGet(ctx, questionsKey(p), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, err
	}
	return decode(id, doc)
}

func (r *QuestionRepository) Put(ctx context.Context, p domain.Partition, q domain.Question) error {
	doc, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	return r.client.HSet(ctx, questionsKey(p), q.ID, doc).Err()
}

func (r *QuestionRepository) Delete(ctx context.Context, p domain.Partition, id string) error {
	removed, err := r.client.HDel(ctx, questionsKey(p), id).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) List(ctx context.Context, p domain.Partition) ([]domain.Question, error) {
	docs, err := r.client.HGetAll(ctx, questionsKey(p)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(docs))
	for id, doc := range docs {
		q, err := decode(id, []byte(doc))
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func questionsKey(p domain.Partition) string {
	return "questions:" + p.Key()
}

func decode(id string, doc []byte) (domain.Question, error) {
	q, err := domain.DecodeQuestion(doc)
	if err != nil {
		return domain.Question{}, fmt.Errorf("decode question %s: %w", id, err)
	}
	q.ID = id
	return q, nil
}

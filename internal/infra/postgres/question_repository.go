package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dsa-tracker/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionRepository stores question documents as JSONB keyed by (owner, id).
type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func (r *QuestionRepository) Create(ctx context.Context, p domain.Partition, q domain.Question) (domain.Question, error) {
	q.ID = uuid.NewString()
	doc, err := json.Marshal(q)
	if err != nil {
		return domain.Question{}, fmt.Errorf("marshal question: %w", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO questions (owner, id, data) VALUES ($1, $2, $3::jsonb)`, p.Key(), q.ID, string(doc))
	if err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

func (r *QuestionRepository) Get(ctx context.Context, p domain.Partition, id string) (domain.Question, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM questions WHERE owner=$1 AND id=$2`, p.Key(), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	return decode(id, raw)
}

func (r *QuestionRepository) Put(ctx context.Context, p domain.Partition, q domain.Question) error {
	doc, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO questions (owner, id, data) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (owner, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		p.Key(), q.ID, string(doc))
	if err != nil {
		return fmt.Errorf("store question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, p domain.Partition, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE owner=$1 AND id=$2`, p.Key(), id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) List(ctx context.Context, p domain.Partition) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, data FROM questions WHERE owner=$1`, p.Key())
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q, err := decode(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func decode(id string, raw []byte) (domain.Question, error) {
	q, err := domain.DecodeQuestion(raw)
	if err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal question %s: %w", id, err)
	}
	q.ID = id
	return q, nil
}

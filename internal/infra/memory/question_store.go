package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"dsa-tracker/internal/domain"
	"github.com/google/uuid"
)

// QuestionStore is an in-memory implementation of app.QuestionRepository.
// Documents are kept as JSON so reads go through the same canonicalization
// as the remote stores.
type QuestionStore struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{docs: make(map[string]map[string][]byte)}
}

// Seed stores a raw document under id as is. Tests use it to plant legacy shapes.
func (s *QuestionStore) Seed(p domain.Partition, id string, doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partitionLocked(p)[id] = append([]byte(nil), doc...)
}

// Raw returns the stored document for id.
func (s *QuestionStore) Raw(p domain.Partition, id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[p.Key()][id]
	return doc, ok
}

func (s *QuestionStore) Create(ctx context.Context, p domain.Partition, q domain.Question) (domain.Question, error) {
	q.ID = uuid.NewString()
	if err := s.Put(ctx, p, q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

func (s *QuestionStore) Get(_ context.Context, p domain.Partition, id string) (domain.Question, error) {
	s.mu.RLock()
	doc, ok := s.docs[p.Key()][id]
	s.mu.RUnlock()
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return decode(id, doc)
}

func (s *QuestionStore) Put(_ context.Context, p domain.Partition, q domain.Question) error {
	doc, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partitionLocked(p)[q.ID] = doc
	return nil
}

func (s *QuestionStore) Delete(_ context.Context, p domain.Partition, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.docs[p.Key()]
	if _, ok := docs[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(docs, id)
	return nil
}

func (s *QuestionStore) List(_ context.Context, p domain.Partition) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := s.docs[p.Key()]
	out := make([]domain.Question, 0, len(docs))
	for id, doc := range docs {
		q, err := decode(id, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *QuestionStore) partitionLocked(p domain.Partition) map[string][]byte {
	docs, ok := s.docs[p.Key()]
	if !ok {
		docs = make(map[string][]byte)
		s.docs[p.Key()] = docs
	}
	return docs
}

// decode canonicalizes doc; the map key wins over a missing or stale id field.
func decode(id string, doc []byte) (domain.Question, error) {
	q, err := domain.DecodeQuestion(doc)
	if err != nil {
		return domain.Question{}, fmt.Errorf("decode question %s: %w", id, err)
	}
	q.ID = id
	return q, nil
}

package memory

import (
	"context"
	"sort"
	"sync"

	"dsa-tracker/internal/domain"
)

// TopicStore keeps each partition's topic pool as slug -> label.
type TopicStore struct {
	mu    sync.RWMutex
	pools map[string]map[string]string
}

func NewTopicStore() *TopicStore {
	return &TopicStore{pools: make(map[string]map[string]string)}
}

func (s *TopicStore) List(_ context.Context, p domain.Partition) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pool := s.pools[p.Key()]
	labels := make([]string, 0, len(pool))
	for _, label := range pool {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

func (s *TopicStore) AddIfAbsent(_ context.Context, p domain.Partition, slug, label string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool, ok := s.pools[p.Key()]
	if !ok {
		pool = make(map[string]string)
		s.pools[p.Key()] = pool
	}
	if _, taken := pool[slug]; taken {
		return false, nil
	}
	pool[slug] = label
	return true, nil
}

package memory

import (
	"context"
	"sync"
)

// ActivityStore keeps per-user day counts in process.
type ActivityStore struct {
	mu    sync.Mutex
	users map[string]map[int64]int
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{users: make(map[string]map[int64]int)}
}

func (s *ActivityStore) Increment(_ context.Context, userID string, day int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days, ok := s.users[userID]
	if !ok {
		days = make(map[int64]int)
		s.users[userID] = days
	}
	days[day]++
	return days[day], nil
}

func (s *ActivityStore) Counts(_ context.Context, userID string) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]int, len(s.users[userID]))
	for day, count := range s.users[userID] {
		out[day] = count
	}
	return out, nil
}

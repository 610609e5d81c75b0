package app

import "sync"

// ActivityUpdate is pushed to a user's subscribers whenever a revision is recorded.
type ActivityUpdate struct {
	UserID     string `json:"userId"`
	QuestionID string `json:"questionId"`
	Day        int64  `json:"day"`
	Count      int    `json:"count"`
	Level      int    `json:"level"`
	Streak     int    `json:"streak"`
}

// ActivityFeed fans activity updates out to a user's open connections.
type ActivityFeed struct {
	mu          sync.Mutex
	subscribers map[string]map[chan ActivityUpdate]struct{}
}

func NewActivityFeed() *ActivityFeed {
	return &ActivityFeed{subscribers: make(map[string]map[chan ActivityUpdate]struct{})}
}

// Subscribe returns a channel of updates for userID. The caller must invoke
// the returned cancel function to avoid leaks.
func (f *ActivityFeed) Subscribe(userID string) (<-chan ActivityUpdate, func()) {
	ch := make(chan ActivityUpdate, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[userID]
	if !ok {
		subs = make(map[chan ActivityUpdate]struct{})
		f.subscribers[userID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subscribers[userID]
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(f.subscribers, userID)
		}
	}
	return ch, cancel
}

// Publish delivers u to every subscriber of u.UserID without blocking. A
// subscriber that has fallen behind loses its oldest pending update.
func (f *ActivityFeed) Publish(u ActivityUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[u.UserID] {
		select {
		case ch <- u:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- u
		}
	}
}

// Subscribers reports how many channels are open for userID.
func (f *ActivityFeed) Subscribers(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[userID])
}

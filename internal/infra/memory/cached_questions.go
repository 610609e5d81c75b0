package memory

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"dsa-tracker/internal/app"
	"dsa-tracker/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CachedQuestions caches partition listings with a TTL to avoid repeated
// store round trips; slug lookups and conflict checks list a whole partition.
// Writes through the decorator drop the partition's entry and bump its
// generation, so a load that started before the write is not stored.
type CachedQuestions struct {
	next  app.QuestionRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedList
	gens  map[string]uint64
}

type cachedList struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewCachedQuestions(next app.QuestionRepository, ttl time.Duration) *CachedQuestions {
	return &CachedQuestions{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedList),
		gens:  make(map[string]uint64),
	}
}

func (c *CachedQuestions) List(ctx context.Context, p domain.Partition) ([]domain.Question, error) {
	key := p.Key()
	if list, ok := c.lookup(key); ok {
		return list, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if list, ok := c.lookup(key); ok {
			return list, nil
		}
		c.mu.RLock()
		gen := c.gens[key]
		c.mu.RUnlock()

		now := c.clock()
		list, err := c.next.List(ctx, p)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gens[key] == gen {
			c.cache[key] = cachedList{questions: list, expiresAt: now.Add(c.ttlWithJitter())}
		}
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

func (c *CachedQuestions) lookup(key string) ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return copyQuestions(entry.questions), true
}

func (c *CachedQuestions) Get(ctx context.Context, p domain.Partition, id string) (domain.Question, error) {
	return c.next.Get(ctx, p, id)
}

func (c *CachedQuestions) Create(ctx context.Context, p domain.Partition, q domain.Question) (domain.Question, error) {
	defer c.invalidate(p)
	return c.next.Create(ctx, p, q)
}

func (c *CachedQuestions) Put(ctx context.Context, p domain.Partition, q domain.Question) error {
	defer c.invalidate(p)
	return c.next.Put(ctx, p, q)
}

func (c *CachedQuestions) Delete(ctx context.Context, p domain.Partition, id string) error {
	defer c.invalidate(p)
	return c.next.Delete(ctx, p, id)
}

func (c *CachedQuestions) invalidate(p domain.Partition) {
	c.mu.Lock()
	delete(c.cache, p.Key())
	c.gens[p.Key()]++
	c.mu.Unlock()
	c.sf.Forget(p.Key())
}

func (c *CachedQuestions) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// copyQuestions hands out questions that share no mutable state with the
// cache entry.
func copyQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		out[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q domain.Question) domain.Question {
	if q.StarterCode != nil {
		code := make(map[domain.Language]string, len(q.StarterCode))
		for lang, v := range q.StarterCode {
			code[lang] = v
		}
		q.StarterCode = code
	}
	if q.Solutions != nil {
		sols := make(map[domain.Language][]domain.Solution, len(q.Solutions))
		for lang, list := range q.Solutions {
			sols[lang] = append([]domain.Solution(nil), list...)
		}
		q.Solutions = sols
	}
	if q.Extra != nil {
		extra := make(map[string]json.RawMessage, len(q.Extra))
		for k, v := range q.Extra {
			extra[k] = v
		}
		q.Extra = extra
	}
	if q.LastRevised != nil {
		at := *q.LastRevised
		q.LastRevised = &at
	}
	return q
}

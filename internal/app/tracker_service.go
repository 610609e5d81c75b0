package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"dsa-tracker/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// QuestionRepository stores question documents per partition (in-memory, Redis, Postgres).
// Reads return canonical questions.
type QuestionRepository interface {
	// Create stores q under a new id and returns it with the id set.
	Create(ctx context.Context, p domain.Partition, q domain.Question) (domain.Question, error)
	Get(ctx context.Context, p domain.Partition, id string) (domain.Question, error)
	// Put replaces or inserts q under q.ID.
	Put(ctx context.Context, p domain.Partition, q domain.Question) error
	Delete(ctx context.Context, p domain.Partition, id string) error
	List(ctx context.Context, p domain.Partition) ([]domain.Question, error)
}

// TopicRepository stores a topic pool per partition, keyed by slug.
type TopicRepository interface {
	List(ctx context.Context, p domain.Partition) ([]string, error)
	// AddIfAbsent stores label under slug unless the slug is taken. It reports
	// whether a write happened.
	AddIfAbsent(ctx context.Context, p domain.Partition, slug, label string) (bool, error)
}

// ActivityRepository stores per-day revision counts per user.
type ActivityRepository interface {
	Increment(ctx context.Context, userID string, day int64) (int, error)
	Counts(ctx context.Context, userID string) (map[int64]int, error)
}

// Stores groups the repositories the tracker needs.
type Stores struct {
	Questions QuestionRepository
	Topics    TopicRepository
	Activity  ActivityRepository
}

// QuestionInput is the editable part of a question.
type QuestionInput struct {
	Title        string                                `json:"title"`
	Topic        string                                `json:"topic"`
	Difficulty   domain.Difficulty                     `json:"difficulty"`
	Description  string                                `json:"description"`
	Examples     string                                `json:"examples"`
	Constraints  string                                `json:"constraints"`
	QuestionLink string                                `json:"questionLink"`
	StarterCode  map[domain.Language]string            `json:"starterCode"`
	Solutions    map[domain.Language][]domain.Solution `json:"solutions"`
}

// InputFromQuestion copies the editable fields of q.
func InputFromQuestion(q domain.Question) QuestionInput {
	return QuestionInput{
		Title:        q.Title,
		Topic:        q.Topic,
		Difficulty:   q.Difficulty,
		Description:  q.Description,
		Examples:     q.Examples,
		Constraints:  q.Constraints,
		QuestionLink: q.QuestionLink,
		StarterCode:  q.StarterCode,
		Solutions:    q.Solutions,
	}
}

func (in QuestionInput) apply(q *domain.Question) {
	q.Title = strings.TrimSpace(in.Title)
	q.Topic = strings.TrimSpace(in.Topic)
	q.Difficulty = in.Difficulty
	q.Description = in.Description
	q.Examples = in.Examples
	q.Constraints = in.Constraints
	q.QuestionLink = strings.TrimSpace(in.QuestionLink)
	q.StarterCode = in.StarterCode
	q.Solutions = in.Solutions
}

// ListFilter narrows ListQuestions. Empty fields match everything.
type ListFilter struct {
	Topic      string
	Difficulty domain.Difficulty
}

// Option configures a TrackerService.
type Option func(*TrackerService)

func WithClock(now func() time.Time) Option {
	return func(s *TrackerService) { s.now = now }
}

// WithLocation sets the time zone that defines calendar days for activity.
func WithLocation(loc *time.Location) Option {
	return func(s *TrackerService) { s.loc = loc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *TrackerService) { s.logger = logger }
}

func WithFeed(feed *ActivityFeed) Option {
	return func(s *TrackerService) { s.feed = feed }
}

// TrackerService contains the practice tracker use cases.
type TrackerService struct {
	questions QuestionRepository
	topics    TopicRepository
	activity  ActivityRepository
	now       func() time.Time
	loc       *time.Location
	logger    *zap.Logger
	feed      *ActivityFeed
}

func NewTrackerService(stores Stores, opts ...Option) *TrackerService {
	s := &TrackerService{
		questions: stores.Questions,
		topics:    stores.Topics,
		activity:  stores.Activity,
		now:       time.Now,
		loc:       time.Local,
		logger:    zap.NewNop(),
		feed:      NewActivityFeed(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Feed exposes the activity feed for transports that stream updates.
func (s *TrackerService) Feed() *ActivityFeed {
	return s.feed
}

// partition resolves scope for principal. Anyone signed in may read the
// public partition; only admins may write to it.
func (s *TrackerService) partition(principal domain.Principal, scope domain.Scope, write bool) (domain.Partition, error) {
	if principal.UserID == "" {
		return domain.Partition{}, domain.ErrUnauthenticated
	}
	switch scope {
	case domain.ScopeUser:
		return domain.UserPartition(principal.UserID), nil
	case domain.ScopePublic:
		if write && !principal.Admin {
			return domain.Partition{}, domain.ErrForbidden
		}
		return domain.PublicPartition(), nil
	}
	return domain.Partition{}, &domain.ValidationError{Fields: []domain.FieldIssue{{Field: "scope", Rule: "oneof"}}}
}

// AddQuestion validates and stores a new question. The topic is registered
// before the question is written; if that fails nothing is written.
func (s *TrackerService) AddQuestion(ctx context.Context, principal domain.Principal, scope domain.Scope, in QuestionInput) (domain.Question, error) {
	part, err := s.partition(principal, scope, true)
	if err != nil {
		return domain.Question{}, err
	}

	var q domain.Question
	in.apply(&q)
	if err := s.prepare(ctx, part, &q); err != nil {
		return domain.Question{}, err
	}

	now := s.now().UnixMilli()
	q.CreatedAt = now
	q.UpdatedAt = now

	created, err := s.questions.Create(ctx, part, q)
	if err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	s.logger.Info("question added",
		zap.String("partition", part.Key()),
		zap.String("id", created.ID),
		zap.String("slug", created.Slug()),
	)
	return created, nil
}

// UpdateQuestion replaces the editable fields of an existing question. The
// creation time, last revision and unknown fields are kept.
func (s *TrackerService) UpdateQuestion(ctx context.Context, principal domain.Principal, scope domain.Scope, id string, in QuestionInput) (domain.Question, error) {
	part, err := s.partition(principal, scope, true)
	if err != nil {
		return domain.Question{}, err
	}
	q, err := s.questions.Get(ctx, part, id)
	if err != nil {
		return domain.Question{}, err
	}

	in.apply(&q)
	if err := s.prepare(ctx, part, &q); err != nil {
		return domain.Question{}, err
	}
	q.UpdatedAt = s.now().UnixMilli()

	if err := s.questions.Put(ctx, part, q); err != nil {
		return domain.Question{}, fmt.Errorf("update question: %w", err)
	}
	s.logger.Info("question updated", zap.String("partition", part.Key()), zap.String("id", q.ID))
	return q, nil
}

// prepare runs the checks shared by add and update and brings q into its
// stored shape.
func (s *TrackerService) prepare(ctx context.Context, part domain.Partition, q *domain.Question) error {
	if err := domain.ValidateQuestion(*q); err != nil {
		return err
	}
	q.Solutions = domain.PrepareSolutions(q.Solutions).Kept

	if err := s.checkSlug(ctx, part, *q); err != nil {
		return err
	}
	if domain.IsRegistrableTopic(q.Topic) {
		label, _, err := s.registerTopic(ctx, part, q.Topic)
		if err != nil {
			return fmt.Errorf("register topic: %w", err)
		}
		q.Topic = label
	}
	q.StarterCode = domain.FillStarterCode(q.StarterCode)
	return nil
}

func (s *TrackerService) checkSlug(ctx context.Context, part domain.Partition, q domain.Question) error {
	existing, err := s.questions.List(ctx, part)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	slug := q.Slug()
	for _, other := range existing {
		if other.ID != q.ID && other.Slug() == slug {
			return fmt.Errorf("%w: %q", domain.ErrSlugConflict, slug)
		}
	}
	return nil
}

func (s *TrackerService) DeleteQuestion(ctx context.Context, principal domain.Principal, scope domain.Scope, id string) error {
	part, err := s.partition(principal, scope, true)
	if err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, part, id); err != nil {
		return err
	}
	s.logger.Info("question deleted", zap.String("partition", part.Key()), zap.String("id", id))
	return nil
}

func (s *TrackerService) GetQuestion(ctx context.Context, principal domain.Principal, scope domain.Scope, id string) (domain.Question, error) {
	part, err := s.partition(principal, scope, false)
	if err != nil {
		return domain.Question{}, err
	}
	return s.questions.Get(ctx, part, id)
}

// FindBySlug resolves a routing slug. It returns domain.ErrNoMatch when the
// slug is empty or nothing routes to it; if several questions share it the
// oldest wins.
func (s *TrackerService) FindBySlug(ctx context.Context, principal domain.Principal, scope domain.Scope, slug string) (domain.Question, error) {
	part, err := s.partition(principal, scope, false)
	if err != nil {
		return domain.Question{}, err
	}
	slug = domain.Slugify(slug)
	if slug == "" {
		return domain.Question{}, domain.ErrNoMatch
	}
	questions, err := s.questions.List(ctx, part)
	if err != nil {
		return domain.Question{}, err
	}

	var match *domain.Question
	for i := range questions {
		q := &questions[i]
		if q.Slug() != slug {
			continue
		}
		if match == nil || q.CreatedAt < match.CreatedAt || (q.CreatedAt == match.CreatedAt && q.ID < match.ID) {
			match = q
		}
	}
	if match == nil {
		return domain.Question{}, domain.ErrNoMatch
	}
	return *match, nil
}

// ListQuestions returns the partition's questions, least recently revised
// first. Never-revised questions come before everything else.
func (s *TrackerService) ListQuestions(ctx context.Context, principal domain.Principal, scope domain.Scope, filter ListFilter) ([]domain.Question, error) {
	part, err := s.partition(principal, scope, false)
	if err != nil {
		return nil, err
	}
	all, err := s.questions.List(ctx, part)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Question, 0, len(all))
	for _, q := range all {
		if filter.Topic != "" && q.Topic != filter.Topic {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := revisedAt(out[i]), revisedAt(out[j])
		if ri != rj {
			return ri < rj
		}
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func revisedAt(q domain.Question) int64 {
	if q.LastRevised == nil {
		return -1
	}
	return *q.LastRevised
}

// MarkRevised records a review of a question: today's activity count goes
// up, the principal's subscribers are notified, and lastRevised is stamped
// when the principal may write to the question's partition.
func (s *TrackerService) MarkRevised(ctx context.Context, principal domain.Principal, scope domain.Scope, id string) (domain.Question, ActivityUpdate, error) {
	part, err := s.partition(principal, scope, false)
	if err != nil {
		return domain.Question{}, ActivityUpdate{}, err
	}
	q, err := s.questions.Get(ctx, part, id)
	if err != nil {
		return domain.Question{}, ActivityUpdate{}, err
	}

	now := s.now().In(s.loc)
	if _, werr := s.partition(principal, scope, true); werr == nil {
		revised := now.UnixMilli()
		q.LastRevised = &revised
		if err := s.questions.Put(ctx, part, q); err != nil {
			return domain.Question{}, ActivityUpdate{}, fmt.Errorf("mark revised: %w", err)
		}
	}

	day := domain.DayKey(now)
	count, err := s.activity.Increment(ctx, principal.UserID, day)
	if err != nil {
		return domain.Question{}, ActivityUpdate{}, fmt.Errorf("record activity: %w", err)
	}
	counts, err := s.activity.Counts(ctx, principal.UserID)
	if err != nil {
		return domain.Question{}, ActivityUpdate{}, fmt.Errorf("load activity: %w", err)
	}

	update := ActivityUpdate{
		UserID:     principal.UserID,
		QuestionID: q.ID,
		Day:        day,
		Count:      count,
		Level:      domain.ActivityLevel(count),
		Streak:     domain.Streak(counts, now),
	}
	s.feed.Publish(update)
	s.logger.Info("question revised",
		zap.String("user", principal.UserID),
		zap.String("id", q.ID),
		zap.Int("count", count),
		zap.Int("streak", update.Streak),
	)
	return q, update, nil
}

// Topics returns the merged topic list shown for selection and filtering.
func (s *TrackerService) Topics(ctx context.Context, principal domain.Principal) ([]string, error) {
	if principal.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}

	var public, user []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		public, err = s.topics.List(gctx, domain.PublicPartition())
		return err
	})
	g.Go(func() error {
		var err error
		user, err = s.topics.List(gctx, domain.UserPartition(principal.UserID))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	return domain.MergeTopics(public, user), nil
}

// RegisterTopic adds label to the scope's pool unless it is already there.
// Registering an existing label or the catch-all is a no-op. Two devices
// registering at once resolve last-writer-wins in the store.
func (s *TrackerService) RegisterTopic(ctx context.Context, principal domain.Principal, scope domain.Scope, label string) (bool, error) {
	part, err := s.partition(principal, scope, true)
	if err != nil {
		return false, err
	}
	label = strings.TrimSpace(label)
	if label == domain.OthersTopic {
		return false, nil
	}
	if !domain.IsRegistrableTopic(label) {
		return false, fmt.Errorf("%w: %q", domain.ErrInvalidTopic, label)
	}
	_, added, err := s.registerTopic(ctx, part, label)
	return added, err
}

// registerTopic returns the label as stored in the pool. A label whose slug
// is already taken resolves to the existing spelling.
func (s *TrackerService) registerTopic(ctx context.Context, part domain.Partition, label string) (string, bool, error) {
	pool, err := s.topics.List(ctx, part)
	if err != nil {
		return "", false, err
	}
	if stored, ok := domain.FindTopic(pool, label); ok {
		return stored, false, nil
	}
	added, err := s.topics.AddIfAbsent(ctx, part, domain.Slugify(label), label)
	if err != nil {
		return "", false, err
	}
	if added {
		s.logger.Info("topic registered", zap.String("partition", part.Key()), zap.String("topic", label))
		return label, true, nil
	}

	// another writer took the slug between the read and the insert
	pool, err = s.topics.List(ctx, part)
	if err != nil {
		return "", false, err
	}
	if stored, ok := domain.FindTopic(pool, label); ok {
		return stored, false, nil
	}
	return label, false, nil
}

// Heatmap builds the principal's activity grid as of asOf in the service's
// time zone.
func (s *TrackerService) Heatmap(ctx context.Context, principal domain.Principal, asOf time.Time) (domain.Heatmap, error) {
	if principal.UserID == "" {
		return domain.Heatmap{}, domain.ErrUnauthenticated
	}
	counts, err := s.activity.Counts(ctx, principal.UserID)
	if err != nil {
		return domain.Heatmap{}, fmt.Errorf("load activity: %w", err)
	}
	return domain.BuildHeatmap(counts, asOf.In(s.loc)), nil
}

// Streak is the principal's current streak as of now.
func (s *TrackerService) Streak(ctx context.Context, principal domain.Principal) (int, error) {
	if principal.UserID == "" {
		return 0, domain.ErrUnauthenticated
	}
	counts, err := s.activity.Counts(ctx, principal.UserID)
	if err != nil {
		return 0, fmt.Errorf("load activity: %w", err)
	}
	return domain.Streak(counts, s.now().In(s.loc)), nil
}

// Normalize rewrites every question of the partition in canonical shape and
// returns how many were written.
func (s *TrackerService) Normalize(ctx context.Context, part domain.Partition) (int, error) {
	questions, err := s.questions.List(ctx, part)
	if err != nil {
		return 0, fmt.Errorf("list questions: %w", err)
	}
	written := 0
	for _, q := range questions {
		if q.ID == "" {
			continue
		}
		if err := s.questions.Put(ctx, part, q); err != nil {
			return written, fmt.Errorf("rewrite %s: %w", q.ID, err)
		}
		written++
	}
	s.logger.Info("partition normalized", zap.String("partition", part.Key()), zap.Int("written", written))
	return written, nil
}

// IsNotFound reports whether err means the addressed record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrQuestionNotFound) || errors.Is(err, domain.ErrNoMatch)
}

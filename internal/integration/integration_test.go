package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"dsa-tracker/internal/app"
	"dsa-tracker/internal/domain"
	"dsa-tracker/internal/infra/memory"
	pgstore "dsa-tracker/internal/infra/postgres"
	pgmigrations "dsa-tracker/internal/infra/postgres/migrations"
	redisstore "dsa-tracker/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestTrackerEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateAndSeed(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	service := app.NewTrackerService(app.Stores{
		Questions: memory.NewCachedQuestions(pgstore.NewQuestionRepository(pool), time.Minute),
		Topics:    pgstore.NewTopicRepository(pool),
		Activity:  redisstore.NewActivityRepository(redisClient),
	}, app.WithClock(func() time.Time { return now }), app.WithLocation(time.UTC))

	alice := domain.Principal{UserID: "alice"}

	legacy, err := service.FindBySlug(ctx, alice, domain.ScopeUser, "two-sum")
	if err != nil {
		t.Fatalf("find seeded: %v", err)
	}
	if sols := legacy.Solutions[domain.LanguagePython]; len(sols) != 1 || sols[0].Language != domain.LanguagePython {
		t.Fatalf("expected legacy solutions canonicalized, got %+v", legacy.Solutions)
	}

	if n, err := service.Normalize(ctx, domain.UserPartition("alice")); err != nil || n != 1 {
		t.Fatalf("normalize: n=%d err=%v", n, err)
	}

	q, err := service.AddQuestion(ctx, alice, domain.ScopeUser, app.QuestionInput{
		Title:       "Valid Parentheses",
		Topic:       "Stacks",
		Difficulty:  domain.DifficultyEasy,
		Description: "Check bracket balance.",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	now = now.AddDate(0, 0, -1)
	if _, _, err := service.MarkRevised(ctx, alice, domain.ScopeUser, legacy.ID); err != nil {
		t.Fatalf("revise yesterday: %v", err)
	}
	now = now.AddDate(0, 0, 1)
	_, update, err := service.MarkRevised(ctx, alice, domain.ScopeUser, q.ID)
	if err != nil {
		t.Fatalf("revise today: %v", err)
	}
	if update.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", update.Streak)
	}

	topics, err := service.Topics(ctx, alice)
	if err != nil {
		t.Fatalf("topics: %v", err)
	}
	if strings.Join(topics, ",") != "Stacks,Others" {
		t.Fatalf("unexpected topics %v", topics)
	}

	list, err := service.ListQuestions(ctx, alice, domain.ScopeUser, app.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != legacy.ID {
		t.Fatalf("expected least recently revised first, got %+v", list)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "tracker", "POSTGRES_PASSWORD": "trackerpass", "POSTGRES_DB": "trackerdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://tracker:trackerpass@%s:%s/trackerdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

// migrateAndSeed applies the schema and plants one document in the legacy
// flat-solutions shape.
func migrateAndSeed(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	doc := `{"title":"Two Sum","difficulty":"Easy","description":"d","createdAt":1,` +
		`"starterCode":"pass","solutions":[{"title":"Hash map","code":"seen = {}","timeComplexity":"O(n)"}]}`
	if _, err := db.ExecContext(ctx, `INSERT INTO questions (owner, id, data) VALUES (?, ?, ?::jsonb)`, "user:alice", "legacy-1", doc); err != nil {
		t.Fatalf("insert question: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

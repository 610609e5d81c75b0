package redis

import (
	"context"
	"errors"
	"testing"

	"dsa-tracker/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionRepositoryRoundTrip(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()
	repo := NewQuestionRepository(client)
	part := domain.UserPartition("u1")

	created, err := repo.Create(ctx, part, domain.Question{
		Title:       "Two Sum",
		Difficulty:  domain.DifficultyEasy,
		StarterCode: map[domain.Language]string{domain.LanguagePython: "pass"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !mr.Exists("questions:user:u1") {
		t.Fatalf("expected partition hash to exist")
	}

	got, err := repo.Get(ctx, part, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Two Sum" || got.StarterCode[domain.LanguagePython] != "pass" {
		t.Fatalf("unexpected question %+v", got)
	}

	if err := repo.Delete(ctx, part, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, part, created.ID); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuestionRepositoryRepairsLegacyShape(t *testing.T) {
	mr, client := newTestClient(t)
	mr.HSet("questions:public", "q1", `{"title":"Old","solutions":[{"title":"a","code":"b","timeComplexity":"O(1)"}]}`)

	list, err := NewQuestionRepository(client).List(context.Background(), domain.PublicPartition())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "q1" {
		t.Fatalf("unexpected list %+v", list)
	}
	if sols := list[0].Solutions[domain.LanguagePython]; len(sols) != 1 || sols[0].Language != domain.LanguagePython {
		t.Fatalf("expected canonical python solutions, got %+v", list[0].Solutions)
	}
}

func TestTopicRepositoryInsertIfAbsent(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()
	repo := NewTopicRepository(client)
	part := domain.PublicPartition()

	if added, err := repo.AddIfAbsent(ctx, part, "graphs", "Graphs"); err != nil || !added {
		t.Fatalf("expected insert, added=%v err=%v", added, err)
	}
	if added, err := repo.AddIfAbsent(ctx, part, "graphs", "GRAPHS"); err != nil || added {
		t.Fatalf("expected no-op, added=%v err=%v", added, err)
	}
	if got := mr.HGet("topics:public", "graphs"); got != "Graphs" {
		t.Fatalf("expected original label kept, got %q", got)
	}
	labels, err := repo.List(ctx, part)
	if err != nil || len(labels) != 1 {
		t.Fatalf("unexpected labels %v err=%v", labels, err)
	}
}

func TestActivityRepositoryCounts(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()
	repo := NewActivityRepository(client)

	if _, err := repo.Increment(ctx, "u1", 86400000); err != nil {
		t.Fatalf("increment: %v", err)
	}
	n, err := repo.Increment(ctx, "u1", 86400000)
	if err != nil || n != 2 {
		t.Fatalf("expected 2, got %d err=%v", n, err)
	}
	counts, err := repo.Counts(ctx, "u1")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[86400000] != 2 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

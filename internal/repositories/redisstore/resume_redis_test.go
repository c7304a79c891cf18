package redisstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestResumeRedisSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewResumeRedis(newTestRedis(t))

	draft := &models.ResumeData{
		PersonalInfo: models.ResumePersonalInfo{
			Name:    "Alice",
			Email:   "alice@example.com",
			Summary: "CS student",
		},
		Skills:   []string{"Go", "SQL"},
		Template: "modern",
	}

	if err := store.Save(ctx, "uid-alice", draft); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "uid-alice")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.PersonalInfo.Name != "Alice" {
		t.Errorf("name = %q, want Alice", loaded.PersonalInfo.Name)
	}
	if len(loaded.Skills) != 2 {
		t.Errorf("skills = %v, want 2 entries", loaded.Skills)
	}
	if loaded.Template != "modern" {
		t.Errorf("template = %q, want modern", loaded.Template)
	}
}

func TestResumeRedisSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewResumeRedis(newTestRedis(t))

	first := &models.ResumeData{PersonalInfo: models.ResumePersonalInfo{Name: "v1"}}
	second := &models.ResumeData{PersonalInfo: models.ResumePersonalInfo{Name: "v2"}}

	if err := store.Save(ctx, "uid-alice", first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "uid-alice", second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "uid-alice")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.PersonalInfo.Name != "v2" {
		t.Errorf("name = %q, want the later snapshot", loaded.PersonalInfo.Name)
	}
}

func TestResumeRedisLoadMissing(t *testing.T) {
	ctx := context.Background()
	store := NewResumeRedis(newTestRedis(t))

	if _, err := store.Load(ctx, "uid-nobody"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResumeRedisDelete(t *testing.T) {
	ctx := context.Background()
	store := NewResumeRedis(newTestRedis(t))

	if err := store.Save(ctx, "uid-alice", &models.ResumeData{Template: "classic"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "uid-alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "uid-alice"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing draft is not an error
	if err := store.Delete(ctx, "uid-alice"); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

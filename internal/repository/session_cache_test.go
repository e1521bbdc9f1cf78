package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/e-learning-backend/internal/model"
)

func testSessionCache(t *testing.T) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionCache(client, time.Hour), m
}

func TestSessionCacheLifecycle(t *testing.T) {
	cache, _ := testSessionCache(t)
	ctx := context.Background()
	u := model.User{ID: 5, Name: "dana", Email: "dana@example.com", Role: model.RoleUser, IsVerified: true}

	live, err := cache.Exists(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if live {
		t.Fatal("session live before login")
	}

	if err := cache.Set(ctx, u); err != nil {
		t.Fatal(err)
	}
	live, err = cache.Exists(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !live {
		t.Fatal("session not live after login")
	}

	got, err := cache.Get(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || got.Email != u.Email || got.Role != u.Role {
		t.Fatalf("snapshot mismatch: %+v", got)
	}

	if err := cache.Del(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	live, err = cache.Exists(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if live {
		t.Fatal("session still live after logout")
	}
	if _, err := cache.Get(ctx, u.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after logout, got %v", err)
	}
}

func TestSessionCacheStripsPasswordHash(t *testing.T) {
	cache, m := testSessionCache(t)
	ctx := context.Background()
	u := model.User{ID: 9, Name: "eli", Email: "eli@example.com", PasswordHash: "$2a$10$secret"}

	if err := cache.Set(ctx, u); err != nil {
		t.Fatal(err)
	}
	raw, err := m.Get("session:9")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(raw, "secret") {
		t.Fatalf("password hash leaked into cache: %s", raw)
	}
}

func TestSessionCacheOverwriteOnRelogin(t *testing.T) {
	cache, _ := testSessionCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, model.User{ID: 3, Name: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Set(ctx, model.User{ID: 3, Name: "new"}); err != nil {
		t.Fatal(err)
	}
	got, err := cache.Get(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "new" {
		t.Fatalf("relogin did not replace snapshot: %+v", got)
	}
}

func TestSessionCacheExpiry(t *testing.T) {
	cache, m := testSessionCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, model.User{ID: 4}); err != nil {
		t.Fatal(err)
	}
	m.FastForward(2 * time.Hour)
	live, err := cache.Exists(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if live {
		t.Fatal("session survived its TTL")
	}
}

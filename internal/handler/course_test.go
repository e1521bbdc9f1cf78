package handler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestInvalidateCatalogDropsOnlyCatalogKeys(t *testing.T) {
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	for _, key := range []string{"catalog:aa", "catalog:bb", "session:7", "rl:1.2.3.4"} {
		if err := client.Set(ctx, key, "x", time.Minute).Err(); err != nil {
			t.Fatal(err)
		}
	}

	h := &CourseHandler{RDB: client, CachePrefix: "catalog"}
	h.invalidateCatalog(ctx)

	for _, key := range []string{"catalog:aa", "catalog:bb"} {
		if m.Exists(key) {
			t.Fatalf("catalog key %s survived invalidation", key)
		}
	}
	for _, key := range []string{"session:7", "rl:1.2.3.4"} {
		if !m.Exists(key) {
			t.Fatalf("unrelated key %s was deleted", key)
		}
	}
}

func TestInvalidateCatalogWithoutRedis(t *testing.T) {
	h := &CourseHandler{CachePrefix: "catalog"}
	h.invalidateCatalog(context.Background()) // nil client is a no-op
}

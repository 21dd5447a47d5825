package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"briefly-backend/internal/models"
)

// redisTestClient connects to REDIS_URL and skips the test when it is unset.
func redisTestClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	return client
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c := NewRedisCache(client, "", testLogger())
	key := NewCacheKey("text", models.FormatBullets, models.DetailDetailed)

	if _, ok := c.Get(ctx, key); ok {
		t.Error("read failure should count as a miss")
	}
	if err := c.Put(ctx, key, "summary"); err == nil {
		t.Error("expected write error")
	}
	if err := c.Clear(ctx); err == nil {
		t.Error("expected clear error")
	}
}

func TestRedisCache_DefaultPrefix(t *testing.T) {
	c := NewRedisCache(nil, "", testLogger())
	key := NewCacheKey("text", models.FormatQA, models.DetailSimplified)
	if got := c.key(key); got != "summary_cache:"+key.Hash() {
		t.Errorf("unexpected redis key %q", got)
	}
}

func TestRedisCache_Integration(t *testing.T) {
	client := redisTestClient(t)
	ctx := context.Background()
	prefix := fmt.Sprintf("test_summary_cache:%s:", uuid.New())
	other := fmt.Sprintf("test_other:%s", uuid.New())
	t.Cleanup(func() { client.Del(context.Background(), other) })

	c := NewRedisCache(client, prefix, testLogger())

	tests := []struct {
		name    string
		entries int
	}{
		{"empty cache", 0},
		{"single entry", 1},
		{"more than one delete batch", 1203},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := client.Set(ctx, other, "keep", 0).Err(); err != nil {
				t.Fatalf("Set: %v", err)
			}
			for i := 0; i < tc.entries; i++ {
				key := NewCacheKey(fmt.Sprintf("text %d", i), models.FormatBullets, models.DetailDetailed)
				if err := c.Put(ctx, key, fmt.Sprintf("summary %d", i)); err != nil {
					t.Fatalf("Put: %v", err)
				}
			}
			if tc.entries > 0 {
				key := NewCacheKey("text 0", models.FormatBullets, models.DetailDetailed)
				if got, ok := c.Get(ctx, key); !ok || got != "summary 0" {
					t.Fatalf("expected hit with %q, got %q (ok=%v)", "summary 0", got, ok)
				}
			}

			if err := c.Clear(ctx); err != nil {
				t.Fatalf("Clear: %v", err)
			}

			keys, err := client.Keys(ctx, prefix+"*").Result()
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			if len(keys) != 0 {
				t.Errorf("expected no cache keys after clear, found %d", len(keys))
			}
			if n, _ := client.Exists(ctx, other).Result(); n != 1 {
				t.Error("clear removed a key outside the cache prefix")
			}
		})
	}
}

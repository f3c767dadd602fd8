package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client, skipping when no local
// Redis is reachable. Container-backed coverage lives in
// tests/integration.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedisStore_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisStore should panic with nil client")
		}
	}()
	NewRedisStore(nil)
}

func TestRedisStore_SetAndGet(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	if err := store.Set(ctx, "job|j-1", []byte(`{"title":"Backend Engineer"}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "job|j-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"title":"Backend Engineer"}` {
		t.Errorf("Get = %s, want original value", got)
	}
}

func TestRedisStore_Get_Miss(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))

	if _, err := store.Get(context.Background(), "job|nonexistent"); err != ErrCacheMiss {
		t.Errorf("Get of absent key = %v, want ErrCacheMiss", err)
	}
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	if err := store.Set(ctx, "job|short-lived", []byte("x"), 500*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := store.Get(ctx, "job|short-lived"); err != nil {
		t.Fatalf("Get before expiry = %v, want nil", err)
	}

	time.Sleep(700 * time.Millisecond)

	if _, err := store.Get(ctx, "job|short-lived"); err != ErrCacheMiss {
		t.Errorf("Get after expiry = %v, want ErrCacheMiss", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	if err := store.Set(ctx, "job|j-2", []byte("x"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, "job|j-2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "job|j-2"); err != ErrCacheMiss {
		t.Errorf("Get after Delete = %v, want ErrCacheMiss", err)
	}

	// Deleting again is not an error.
	if err := store.Delete(ctx, "job|j-2"); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
}

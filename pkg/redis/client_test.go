package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// memoryRedis implements the cmdable subset against plain maps.
type memoryRedis struct {
	values   map[string]string
	counters map[string]int64
	expires  map[string]time.Duration
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{
		values:   map[string]string{},
		counters: map[string]int64{},
		expires:  map[string]time.Duration{},
	}
}

func (m *memoryRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memoryRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.values[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := m.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *memoryRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, exists := m.values[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.values[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *memoryRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	m.counters[key]++
	return redis.NewIntResult(m.counters[key], nil)
}

func (m *memoryRedis) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *memoryRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.values, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestIncrWithTTLSetsExpiryOnce(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryRedis()
	client := &Client{store: mem}

	key := client.CounterKey("otp-attempts")
	for want := int64(1); want <= 3; want++ {
		count, err := client.IncrWithTTL(ctx, key, time.Minute)
		if err != nil {
			t.Fatalf("incr %d: %v", want, err)
		}
		if count != want {
			t.Fatalf("counter = %d, want %d", count, want)
		}
	}
	if len(mem.expires) != 1 {
		t.Fatalf("expire set %d times, want once", len(mem.expires))
	}
	if mem.expires[key] != time.Minute {
		t.Fatalf("ttl = %v, want 1m", mem.expires[key])
	}
}

func TestFixedWindowAllowBlocksPastLimit(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMemoryRedis()}

	for i := 0; i < 3; i++ {
		allowed, count, err := client.FixedWindowAllow(ctx, "login", 3, time.Minute)
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("attempt %d blocked inside the limit", i+1)
		}
		if count != int64(i+1) {
			t.Fatalf("attempt %d counted as %d", i+1, count)
		}
	}

	allowed, count, err := client.FixedWindowAllow(ctx, "login", 3, time.Minute)
	if err != nil {
		t.Fatalf("over-limit attempt: %v", err)
	}
	if allowed {
		t.Fatalf("attempt %d should be blocked", count)
	}
}

func TestSetGetDelRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMemoryRedis()}

	key := client.AccessSessionKey("jti-42")
	if err := client.Set(ctx, key, "refresh-secret", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "refresh-secret" {
		t.Fatalf("get returned %q", got)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := client.Get(ctx, key); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestSetNXOnlySetsOnce(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMemoryRedis()}

	ok, err := client.SetNX(ctx, "lock:orders", "holder-a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first setnx ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "lock:orders", "holder-b", time.Minute)
	if err != nil {
		t.Fatalf("second setnx: %v", err)
	}
	if ok {
		t.Fatal("second setnx won a held lock")
	}
}

func TestKeyNamespacing(t *testing.T) {
	client := &Client{}
	tests := []struct {
		got  string
		want string
	}{
		{client.RateLimitKey("login"), "ags:rate_limit:login"},
		{client.CounterKey("scans"), "ags:counter:scans"},
		{client.AccessSessionKey("jti-7"), "ags:session:access:jti-7"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("key = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if err := client.Set(context.Background(), "k", "v", 0); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}

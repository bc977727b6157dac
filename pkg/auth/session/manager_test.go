package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// fakeStore is an in-memory stand-in for the Redis session store.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if val, ok := f.entries[key]; ok {
		return val, nil
	}
	return "", redislib.Nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func (f *fakeStore) AccessSessionKey(accessID string) string {
	return "session:access:" + accessID
}

func (f *fakeStore) secretFor(accessID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.entries[f.AccessSessionKey(accessID)]
	return val, ok
}

func newTestManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: 30 * time.Minute}
}

func TestGenerateStoresRefreshSecret(t *testing.T) {
	store := newFakeStore()
	manager := newTestManager(store)

	secret, err := manager.Generate(context.Background(), "jti-farmer-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	stored, ok := store.secretFor("jti-farmer-1")
	if !ok {
		t.Fatal("no session mapping written")
	}
	if stored != secret {
		t.Fatalf("stored secret %q does not match returned %q", stored, secret)
	}
}

func TestRotateSwapsSession(t *testing.T) {
	store := newFakeStore()
	manager := newTestManager(store)
	ctx := context.Background()

	secret, err := manager.Generate(ctx, "jti-old")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	nextID, nextSecret, err := manager.Rotate(ctx, "jti-old", secret)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if nextID == "jti-old" {
		t.Fatal("rotate reused the old access id")
	}
	if _, ok := store.secretFor("jti-old"); ok {
		t.Fatal("old session survived rotation")
	}
	if stored, _ := store.secretFor(nextID); stored != nextSecret {
		t.Fatalf("new session stores %q, rotate returned %q", stored, nextSecret)
	}
}

func TestRotateRejectsBadSecret(t *testing.T) {
	store := newFakeStore()
	manager := newTestManager(store)
	ctx := context.Background()

	if _, err := manager.Generate(ctx, "jti-target"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := manager.Rotate(ctx, "jti-target", "forged-secret"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, ok := store.secretFor("jti-target"); !ok {
		t.Fatal("failed rotation must not revoke the session")
	}

	if _, _, err := manager.Rotate(ctx, "jti-unknown", "anything"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for unknown session, got %v", err)
	}
}

func TestRevokeAndHasSession(t *testing.T) {
	store := newFakeStore()
	manager := newTestManager(store)
	ctx := context.Background()

	if ok, err := manager.HasSession(ctx, "jti-nobody"); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}

	if _, err := manager.Generate(ctx, "jti-live"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if ok, err := manager.HasSession(ctx, "jti-live"); err != nil || !ok {
		t.Fatalf("expected live session, got ok=%v err=%v", ok, err)
	}

	if err := manager.Revoke(ctx, "jti-live"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := manager.HasSession(ctx, "jti-live"); ok {
		t.Fatal("revoked session still reported live")
	}
}

package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryStore) AccessSessionKey(accessID string) string {
	return "session:" + accessID
}

func newTestManager(store *memoryStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestGenerateStoresRefreshToken(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatal("expected a refresh token")
	}
	if store.values["session:access-1"] != token {
		t.Fatal("expected token stored under the access key")
	}
}

func TestGenerateRequiresAccessID(t *testing.T) {
	mgr := newTestManager(newMemoryStore())
	if _, err := mgr.Generate(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}

func TestRotateSwapsSession(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	newAccessID, newToken, err := mgr.Rotate(context.Background(), "access-1", token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newAccessID == "" || newAccessID == "access-1" {
		t.Fatal("expected a fresh access id")
	}
	if newToken == "" || newToken == token {
		t.Fatal("expected a fresh refresh token")
	}
	if _, ok := store.values["session:access-1"]; ok {
		t.Fatal("expected the old session to be deleted")
	}
	if store.values["session:"+newAccessID] != newToken {
		t.Fatal("expected the new session to be stored")
	}
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	if _, err := mgr.Generate(context.Background(), "access-1"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := mgr.Rotate(context.Background(), "access-1", "stolen"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, ok := store.values["session:access-1"]; !ok {
		t.Fatal("a failed rotation must not drop the session")
	}
}

func TestRotateRejectsUnknownSession(t *testing.T) {
	mgr := newTestManager(newMemoryStore())
	if _, _, err := mgr.Rotate(context.Background(), "missing", "whatever"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRotatedTokenCannotBeReplayed(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := mgr.Rotate(context.Background(), "access-1", token); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	if _, _, err := mgr.Rotate(context.Background(), "access-1", token); err != ErrInvalidRefreshToken {
		t.Fatalf("expected replay to fail, got %v", err)
	}
}

func TestRevokeAndHasSession(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	if _, err := mgr.Generate(context.Background(), "access-1"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	active, err := mgr.HasSession(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !active {
		t.Fatal("expected an active session")
	}

	if err := mgr.Revoke(context.Background(), "access-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	active, err = mgr.HasSession(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if active {
		t.Fatal("expected the session to be gone")
	}
}

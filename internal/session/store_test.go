package session

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if store.Authenticated(ctx) {
		t.Fatal("fresh store should not be authenticated")
	}
	if got := store.Token(ctx); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	store.Set(ctx, "abc123")
	if got := store.Token(ctx); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}
	if !store.Authenticated(ctx) {
		t.Fatal("expected authenticated after Set")
	}

	store.Set(ctx, "newer")
	if got := store.Token(ctx); got != "newer" {
		t.Fatalf("Set should overwrite, got %q", got)
	}

	store.Clear(ctx)
	if store.Authenticated(ctx) {
		t.Fatal("expected unauthenticated after Clear")
	}
}

func TestTokenSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "session.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	store.Set(ctx, "persist-me")
	store.Close()

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	if got := reopened.Token(ctx); got != "persist-me" {
		t.Fatalf("expected token to persist, got %q", got)
	}
}

func TestAuthHeader(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if h := store.AuthHeader(ctx); len(h) != 0 {
		t.Fatalf("expected empty header map without session, got %v", h)
	}

	store.Set(ctx, "tok")
	h := store.AuthHeader(ctx)
	if h["Authorization"] != "Bearer tok" {
		t.Fatalf("unexpected header: %v", h)
	}
}

func TestBrokenStoreNeverErrors(t *testing.T) {
	ctx := context.Background()
	var store *Store // nil store stands in for unavailable storage

	if store.Token(ctx) != "" {
		t.Fatal("nil store must read as absent")
	}
	store.Set(ctx, "x") // must not panic
	store.Clear(ctx)
	if store.Authenticated(ctx) {
		t.Fatal("nil store must be unauthenticated")
	}

	empty := &Store{} // opened but storage failed
	empty.Set(ctx, "x")
	if empty.Token(ctx) != "" {
		t.Fatal("store without db must read as absent")
	}
}

// Package session holds the opaque bearer token that proves
// authentication to the remote API. The token lives in a local SQLite
// database so it survives restarts; every operation is best effort, so a
// broken or missing database simply means "not authenticated".
package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const tokenKey = "token"

// Store is the single session object for the process. It is constructed
// once at startup and passed explicitly to everything that needs the
// token; there is no package-level state.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at dbPath and applies
// migrations. On failure it returns a usable store that reports the
// caller as unauthenticated, together with the error so the caller can
// log it; persistence is best effort by contract.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return &Store{}, fmt.Errorf("create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return &Store{}, fmt.Errorf("open session database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return &Store{}, fmt.Errorf("ping session database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return &Store{}, fmt.Errorf("run session migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Token returns the stored token, or "" when absent or when storage
// fails. It never returns an error.
func (s *Store) Token(ctx context.Context) string {
	if s == nil || s.db == nil {
		return ""
	}
	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE key = ?`, tokenKey).Scan(&token)
	if err != nil {
		if err != sql.ErrNoRows {
			slog.WarnContext(ctx, "Session read failed", "error", err)
		}
		return ""
	}
	return token
}

// Set stores the token. Failures are swallowed (logged only).
func (s *Store) Set(ctx context.Context, token string) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		tokenKey, token)
	if err != nil {
		slog.WarnContext(ctx, "Session write failed", "error", err)
	}
}

// Clear removes the token. Failures are swallowed (logged only).
func (s *Store) Clear(ctx context.Context) {
	if s == nil || s.db == nil {
		return
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM session_values WHERE key = ?`, tokenKey); err != nil {
		slog.WarnContext(ctx, "Session clear failed", "error", err)
	}
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// AuthHeader returns the Authorization header for the current session,
// or an empty map when there is no session.
func (s *Store) AuthHeader(ctx context.Context) map[string]string {
	token := s.Token(ctx)
	if token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

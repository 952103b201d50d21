// Package sqlite is the embedded storage backend. Artifacts live in a local
// upload directory; handle uniqueness is enforced with partial unique
// indexes created after the one-time deduplication pass.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"log/slog"

	"github.com/communityforge/sprint/internal/db"
	"github.com/communityforge/sprint/pkg/store"
)

// Store implements store.Store over a local SQLite database.
type Store struct {
	conn      *db.DB
	uploadDir string
	logger    *slog.Logger
}

var _ store.Store = (*Store)(nil)

func New(conn *db.DB, uploadDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Store{conn: conn, uploadDir: uploadDir, logger: logger}
}

// Init applies migrations, merges historical duplicate users and then
// establishes the unique handle indexes. Safe to run repeatedly: migrations
// are versioned, the dedup pass finds no groups on a clean database and the
// index creation uses IF NOT EXISTS.
func (s *Store) Init(ctx context.Context) error {
	if err := db.Migrate(ctx, s.conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	if err := s.dedupeUsers(ctx); err != nil {
		return fmt.Errorf("dedupe users: %w", err)
	}

	// indexes come last so the dedup pass above can clean up rows that
	// would violate them
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_telegram ON users(telegram) WHERE telegram IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_x ON users(x) WHERE x IS NOT NULL`,
	}
	for _, stmt := range stmts {
		if _, err := s.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create unique index: %w", err)
		}
	}

	return nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// isUniqueViolation matches the modernc sqlite error text for unique index
// violations.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

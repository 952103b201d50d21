// Package supabase is the remote storage backend. Tables and cascade rules
// are managed server-side; artifacts go to a storage bucket and are served
// through time-limited signed URLs.
package supabase

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"log/slog"

	"github.com/supabase-community/supabase-go"

	"github.com/communityforge/sprint/internal/config"
	"github.com/communityforge/sprint/pkg/store"
)

// Store implements store.Store against a Supabase project (PostgREST for
// tables, the storage API for artifacts).
type Store struct {
	client       *supabase.Client
	bucket       string
	signedURLTTL time.Duration
	logger       *slog.Logger
}

var _ store.Store = (*Store)(nil)

func New(cfg config.SupabaseConfig, logger *slog.Logger) (*Store, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, fmt.Errorf("supabase credentials missing")
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	client, err := supabase.NewClient(cfg.URL, cfg.Key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}

	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Store{client: client, bucket: cfg.Bucket, signedURLTTL: ttl, logger: logger}, nil
}

// Init verifies connectivity and permissions with a cheap head count.
// Schema setup is owned by the Supabase project, so there is nothing to
// create here.
func (s *Store) Init(ctx context.Context) error {
	_, _, err := s.client.From("users").Select("id", "exact", true).Execute()
	if err != nil {
		return fmt.Errorf("supabase connectivity check: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

// isDuplicateKey matches the Postgres unique-violation message PostgREST
// relays on a lost handle insert race.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key")
}

// mapDuplicate rewraps unique violations as the retryable sentinel.
func mapDuplicate(err error) error {
	if isDuplicateKey(err) {
		return store.ErrDuplicateHandle
	}
	return err
}

// parseTimestamp converts a PostgREST timestamp to unix milliseconds.
// Unparseable values degrade to zero rather than failing a read path.
func parseTimestamp(s string) int64 {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().UnixMilli()
		}
	}
	return 0
}

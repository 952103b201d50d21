package supabase

import (
	"context"
	"fmt"
)

type eventRow struct {
	UserID string         `json:"user_id"`
	Type   string         `json:"type"`
	Meta   map[string]any `json:"meta_json"`
}

func (s *Store) SaveEvent(ctx context.Context, userID, typ string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	row := eventRow{UserID: userID, Type: typ, Meta: meta}
	if _, _, err := s.client.From("events").Insert(row, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

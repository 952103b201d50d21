package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) SaveEvent(ctx context.Context, userID, typ string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal event meta: %w", err)
	}

	_, err = s.conn.Exec(ctx, `INSERT INTO events (id, user_id, type, meta_json, created) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, typ, string(b), now())
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

package supabase

import (
	"context"
	"fmt"

	"github.com/communityforge/sprint/pkg/models"
)

// userRow mirrors the users table as PostgREST serializes it.
type userRow struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Institution string  `json:"institution"`
	Telegram    *string `json:"telegram"`
	X           *string `json:"x"`
	Wallet      *string `json:"wallet"`
	Track       *string `json:"track,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

func (r userRow) toModel() models.User {
	return models.User{
		ID:          r.ID,
		Name:        r.Name,
		Institution: r.Institution,
		Telegram:    r.Telegram,
		X:           r.X,
		Wallet:      r.Wallet,
		Track:       r.Track,
		Created:     parseTimestamp(r.CreatedAt),
	}
}

func (s *Store) UpsertUser(ctx context.Context, name, institution, telegram, x, wallet string) (string, error) {
	if id, err := s.FindUserByHandle(ctx, telegram, x); err != nil {
		return "", err
	} else if id != "" {
		patch := map[string]any{"name": name, "institution": institution, "wallet": ptrOrNil(wallet)}
		if _, _, err := s.client.From("users").Update(patch, "", "").Eq("id", id).Execute(); err != nil {
			return "", fmt.Errorf("update user %s: %w", id, err)
		}
		return id, nil
	}

	row := userRow{
		Name:        name,
		Institution: institution,
		Telegram:    ptrOrNil(telegram),
		X:           ptrOrNil(x),
		Wallet:      ptrOrNil(wallet),
	}
	var inserted []userRow
	if _, err := s.client.From("users").Insert(row, false, "", "representation", "").ExecuteTo(&inserted); err != nil {
		return "", fmt.Errorf("insert user: %w", mapDuplicate(err))
	}
	if len(inserted) == 0 {
		return "", fmt.Errorf("insert user: empty representation")
	}
	return inserted[0].ID, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var rows []userRow
	if _, err := s.client.From("users").Select("*", "", false).Eq("id", id).ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	u := rows[0].toModel()
	return &u, nil
}

func (s *Store) FindUserByHandle(ctx context.Context, telegram, x string) (string, error) {
	if telegram != "" {
		var rows []userRow
		if _, err := s.client.From("users").Select("id", "", false).Eq("telegram", telegram).ExecuteTo(&rows); err != nil {
			return "", fmt.Errorf("find user by telegram: %w", err)
		}
		if len(rows) > 0 {
			return rows[0].ID, nil
		}
	}
	if x != "" {
		var rows []userRow
		if _, err := s.client.From("users").Select("id", "", false).Eq("x", x).ExecuteTo(&rows); err != nil {
			return "", fmt.Errorf("find user by x: %w", err)
		}
		if len(rows) > 0 {
			return rows[0].ID, nil
		}
	}
	return "", nil
}

func (s *Store) GetTrack(ctx context.Context, userID string) (string, error) {
	var rows []userRow
	if _, err := s.client.From("users").Select("id,track", "", false).Eq("id", userID).ExecuteTo(&rows); err != nil {
		return "", fmt.Errorf("get track: %w", err)
	}
	if len(rows) == 0 || rows[0].Track == nil {
		return "", nil
	}
	return *rows[0].Track, nil
}

func (s *Store) SetTrack(ctx context.Context, userID, track string) error {
	if _, _, err := s.client.From("users").Update(map[string]any{"track": track}, "", "").Eq("id", userID).Execute(); err != nil {
		return fmt.Errorf("set track: %w", err)
	}
	return nil
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

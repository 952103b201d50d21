package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/communityforge/sprint/pkg/models"
	"github.com/communityforge/sprint/pkg/store"
)

func (s *Store) UpsertUser(ctx context.Context, name, institution, telegram, x, wallet string) (string, error) {
	if id, err := s.FindUserByHandle(ctx, telegram, x); err != nil {
		return "", err
	} else if id != "" {
		_, err := s.conn.Exec(ctx, `UPDATE users SET name = ?, institution = ?, wallet = ? WHERE id = ?`,
			name, institution, nullable(wallet), id)
		if err != nil {
			return "", fmt.Errorf("update user %s: %w", id, err)
		}
		return id, nil
	}

	id := uuid.NewString()
	_, err := s.conn.Exec(ctx, `INSERT INTO users (id, name, institution, telegram, x, wallet, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, name, institution, nullable(telegram), nullable(x), nullable(wallet), now())
	if err != nil {
		if isUniqueViolation(err) {
			// lost an insert race on a handle; retrying the upsert will
			// find the winner row
			return "", fmt.Errorf("insert user: %w", store.ErrDuplicateHandle)
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := s.conn.QueryRow(ctx, `SELECT id, name, institution, telegram, x, wallet, track, created FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (s *Store) FindUserByHandle(ctx context.Context, telegram, x string) (string, error) {
	if telegram != "" {
		var id string
		err := s.conn.QueryRow(ctx, `SELECT id FROM users WHERE telegram = ?`, telegram).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return "", err
		}
	}
	if x != "" {
		var id string
		err := s.conn.QueryRow(ctx, `SELECT id FROM users WHERE x = ?`, x).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return "", err
		}
	}
	return "", nil
}

func (s *Store) GetTrack(ctx context.Context, userID string) (string, error) {
	var track sql.NullString
	err := s.conn.QueryRow(ctx, `SELECT track FROM users WHERE id = ?`, userID).Scan(&track)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	if !track.Valid {
		return "", nil
	}
	return track.String, nil
}

func (s *Store) SetTrack(ctx context.Context, userID, track string) error {
	_, err := s.conn.Exec(ctx, `UPDATE users SET track = ? WHERE id = ?`, track, userID)
	return err
}

func (s *Store) listUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.conn.QueryRows(ctx, `SELECT id, name, institution, telegram, x, wallet, track, created FROM users ORDER BY created ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*models.User, error) {
	var (
		u                       models.User
		telegram, x, wallet, tr sql.NullString
	)
	if err := r.Scan(&u.ID, &u.Name, &u.Institution, &telegram, &x, &wallet, &tr, &u.Created); err != nil {
		return nil, err
	}
	u.Telegram = fromNull(telegram)
	u.X = fromNull(x)
	u.Wallet = fromNull(wallet)
	u.Track = fromNull(tr)
	return &u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

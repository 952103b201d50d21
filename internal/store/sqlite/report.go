package sqlite

import (
	"context"

	"github.com/communityforge/sprint/internal/report"
	"github.com/communityforge/sprint/pkg/models"
)

func (s *Store) UserSummaryRows(ctx context.Context) ([]models.SummaryRow, error) {
	users, err := s.listUsers(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.ListSubmissionsByStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	return report.Summarize(users, subs), nil
}

func (s *Store) SubmissionRows(ctx context.Context) ([]models.SubmissionRow, error) {
	rows, err := s.conn.QueryRows(ctx, `
		SELECT u.name, u.institution, COALESCE(u.telegram, ''), COALESCE(u.x, ''), s.quest_idx, s.title, s.status, s.created
		FROM submissions s JOIN users u ON u.id = s.user_id
		ORDER BY s.created ASC, s.rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SubmissionRow
	for rows.Next() {
		var r models.SubmissionRow
		if err := rows.Scan(&r.Name, &r.Institution, &r.Telegram, &r.X, &r.QuestIdx, &r.Title, &r.Status, &r.Created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) RecapStats(ctx context.Context) (models.RecapStats, error) {
	var stats models.RecapStats
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.Students); err != nil {
		return stats, err
	}
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&stats.Subs); err != nil {
		return stats, err
	}
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM submissions WHERE status = ?`, models.StatusApproved).Scan(&stats.Approved); err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *Store) ListSocialPosts(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryRows(ctx, `SELECT text FROM submissions WHERE text LIKE 'http%'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

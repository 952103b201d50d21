package supabase

import (
	"context"
	"fmt"
	"sort"

	"github.com/supabase-community/postgrest-go"

	"github.com/communityforge/sprint/internal/report"
	"github.com/communityforge/sprint/pkg/models"
)

// UserSummaryRows fetches users and submissions and folds them client-side
// with the same logic the embedded backend uses.
func (s *Store) UserSummaryRows(ctx context.Context) ([]models.SummaryRow, error) {
	var userRows []userRow
	_, err := s.client.From("users").Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&userRows)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	subs, err := s.ListSubmissionsByStatus(ctx, "")
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(userRows))
	for _, r := range userRows {
		users = append(users, r.toModel())
	}
	return report.Summarize(users, subs), nil
}

func (s *Store) SubmissionRows(ctx context.Context) ([]models.SubmissionRow, error) {
	var subRows []submissionRow
	_, err := s.client.From("submissions").Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&subRows)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	var userRows []userRow
	if _, err := s.client.From("users").Select("*", "", false).ExecuteTo(&userRows); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	usersByID := make(map[string]userRow, len(userRows))
	for _, u := range userRows {
		usersByID[u.ID] = u
	}

	out := make([]models.SubmissionRow, 0, len(subRows))
	for _, sr := range subRows {
		u := usersByID[sr.UserID]
		out = append(out, models.SubmissionRow{
			Name:        u.Name,
			Institution: u.Institution,
			Telegram:    deref(u.Telegram),
			X:           deref(u.X),
			QuestIdx:    sr.QuestIdx,
			Title:       sr.Title,
			Status:      sr.Status,
			Created:     parseTimestamp(sr.CreatedAt),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Created < out[j].Created })
	return out, nil
}

func (s *Store) RecapStats(ctx context.Context) (models.RecapStats, error) {
	var stats models.RecapStats

	_, students, err := s.client.From("users").Select("id", "exact", true).Execute()
	if err != nil {
		return stats, fmt.Errorf("count users: %w", err)
	}
	_, subs, err := s.client.From("submissions").Select("id", "exact", true).Execute()
	if err != nil {
		return stats, fmt.Errorf("count submissions: %w", err)
	}
	_, approved, err := s.client.From("submissions").Select("id", "exact", true).Eq("status", models.StatusApproved).Execute()
	if err != nil {
		return stats, fmt.Errorf("count approved: %w", err)
	}

	stats.Students = students
	stats.Subs = subs
	stats.Approved = approved
	return stats, nil
}

func (s *Store) ListSocialPosts(ctx context.Context) ([]string, error) {
	var rows []submissionRow
	if _, err := s.client.From("submissions").Select("text", "", false).Like("text", "http%").ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("list social posts: %w", err)
	}

	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Text != nil {
			out = append(out, *r.Text)
		}
	}
	return out, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"log/slog"

	"github.com/google/uuid"

	"github.com/communityforge/sprint/pkg/models"
)

// SaveSubmission writes the artifact first so the metadata row can never
// reference a file that was not persisted. If the row insert fails the
// artifact is removed again on a best-effort basis.
func (s *Store) SaveSubmission(ctx context.Context, userID string, questIdx int, title, track, text string, file []byte) (string, error) {
	var filePath string
	if len(file) > 0 {
		filePath = filepath.Join(s.uploadDir, uuid.NewString()+".png")
		if err := os.WriteFile(filePath, file, 0o644); err != nil {
			return "", fmt.Errorf("write artifact: %w", err)
		}
	}

	id := uuid.NewString()
	_, err := s.conn.Exec(ctx, `INSERT INTO submissions (id, user_id, quest_idx, title, track, text, file_path, status, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, questIdx, title, track, nullable(text), nullable(filePath), models.StatusPending, now())
	if err != nil {
		if filePath != "" {
			if rmErr := os.Remove(filePath); rmErr != nil {
				s.logger.Warn("orphaned artifact left behind", slog.String("path", filePath), slog.Any("err", rmErr))
			}
		}
		return "", fmt.Errorf("insert submission: %w", err)
	}

	return id, nil
}

func (s *Store) ListSubmissions(ctx context.Context, userID string) ([]models.Submission, error) {
	rows, err := s.conn.QueryRows(ctx, `SELECT id, user_id, quest_idx, title, track, text, file_path, status, created FROM submissions WHERE user_id = ? ORDER BY created DESC, rowid DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

func (s *Store) ListSubmissionsByStatus(ctx context.Context, status string) ([]models.Submission, error) {
	q := `SELECT id, user_id, quest_idx, title, track, text, file_path, status, created FROM submissions`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created DESC, rowid DESC`

	rows, err := s.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

func (s *Store) SetSubmissionStatus(ctx context.Context, id, status string) error {
	_, err := s.conn.Exec(ctx, `UPDATE submissions SET status = ? WHERE id = ?`, status, id)
	return err
}

// ArtifactURL returns the stored path unchanged: embedded artifacts are
// plain files under the upload directory.
func (s *Store) ArtifactURL(ctx context.Context, filePath string) (string, error) {
	return filePath, nil
}

func collectSubmissions(rows *sql.Rows) ([]models.Submission, error) {
	var out []models.Submission
	for rows.Next() {
		var (
			sub            models.Submission
			text, filePath sql.NullString
		)
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.QuestIdx, &sub.Title, &sub.Track, &text, &filePath, &sub.Status, &sub.Created); err != nil {
			return nil, err
		}
		sub.Text = fromNull(text)
		sub.FilePath = fromNull(filePath)
		out = append(out, sub)
	}
	return out, rows.Err()
}

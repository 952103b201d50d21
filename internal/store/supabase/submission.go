package supabase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	storage_go "github.com/supabase-community/storage-go"

	"github.com/communityforge/sprint/pkg/models"
)

// submissionRow mirrors the submissions table as PostgREST serializes it.
type submissionRow struct {
	ID        string  `json:"id,omitempty"`
	UserID    string  `json:"user_id"`
	QuestIdx  int     `json:"quest_idx"`
	Title     string  `json:"title"`
	Track     string  `json:"track"`
	Text      *string `json:"text"`
	FilePath  *string `json:"file_path"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at,omitempty"`
}

func (r submissionRow) toModel() models.Submission {
	return models.Submission{
		ID:       r.ID,
		UserID:   r.UserID,
		QuestIdx: r.QuestIdx,
		Title:    r.Title,
		Track:    r.Track,
		Text:     r.Text,
		FilePath: r.FilePath,
		Status:   r.Status,
		Created:  parseTimestamp(r.CreatedAt),
	}
}

// SaveSubmission uploads the artifact to the storage bucket first and only
// then inserts the metadata row, so a failed upload never leaves a row
// pointing at a missing object.
func (s *Store) SaveSubmission(ctx context.Context, userID string, questIdx int, title, track, text string, file []byte) (string, error) {
	var filePath *string
	if len(file) > 0 {
		key := fmt.Sprintf("user_%s/%s.png", userID, uuid.NewString())
		contentType := "image/png"
		upsert := true
		_, err := s.client.Storage.UploadFile(s.bucket, key, bytes.NewReader(file), storage_go.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		if err != nil {
			return "", fmt.Errorf("upload artifact: %w", err)
		}
		filePath = &key
	}

	row := submissionRow{
		UserID:   userID,
		QuestIdx: questIdx,
		Title:    title,
		Track:    track,
		Text:     ptrOrNil(text),
		FilePath: filePath,
		Status:   models.StatusPending,
	}
	var inserted []submissionRow
	if _, err := s.client.From("submissions").Insert(row, false, "", "representation", "").ExecuteTo(&inserted); err != nil {
		return "", fmt.Errorf("insert submission: %w", err)
	}
	if len(inserted) == 0 {
		return "", fmt.Errorf("insert submission: empty representation")
	}
	return inserted[0].ID, nil
}

func (s *Store) ListSubmissions(ctx context.Context, userID string) ([]models.Submission, error) {
	var rows []submissionRow
	_, err := s.client.From("submissions").Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return toSubmissions(rows), nil
}

func (s *Store) ListSubmissionsByStatus(ctx context.Context, status string) ([]models.Submission, error) {
	q := s.client.From("submissions").Select("*", "", false)
	if status != "" {
		q = q.Eq("status", status)
	}
	var rows []submissionRow
	if _, err := q.Order("created_at", &postgrest.OrderOpts{Ascending: false}).ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("list submissions by status: %w", err)
	}
	return toSubmissions(rows), nil
}

func (s *Store) SetSubmissionStatus(ctx context.Context, id, status string) error {
	if _, _, err := s.client.From("submissions").Update(map[string]any{"status": status}, "", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("set submission status: %w", err)
	}
	return nil
}

// ArtifactURL issues a signed URL so reviewers can preview bucket objects
// without project credentials.
func (s *Store) ArtifactURL(ctx context.Context, filePath string) (string, error) {
	resp, err := s.client.Storage.CreateSignedUrl(s.bucket, filePath, int(s.signedURLTTL.Seconds()))
	if err != nil {
		return "", fmt.Errorf("create signed url: %w", err)
	}
	return resp.SignedURL, nil
}

func toSubmissions(rows []submissionRow) []models.Submission {
	out := make([]models.Submission, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out
}

package store

import (
	"context"
	"errors"

	"github.com/communityforge/sprint/pkg/models"
)

// ErrDuplicateHandle is returned when an insert loses a race on a unique
// handle column. Callers may retry the upsert; the second run will find the
// row the other writer inserted.
var ErrDuplicateHandle = errors.New("handle already taken")

// Store is the single contract both storage backends implement: the
// embedded SQLite store and the remote Supabase store. Consumers must never
// branch on which backend they hold; the factory in internal/store is the
// only place backend identity is known.
//
// Lookups are total over "found or not": an unknown id yields an empty
// result, not an error.
type Store interface {
	// Init is idempotent and must succeed before any other call. The
	// embedded backend creates tables, merges historical duplicate users
	// and establishes unique handle indexes; the remote backend only
	// verifies connectivity (its schema is managed server-side).
	Init(ctx context.Context) error

	// UpsertUser creates a participant or, when the telegram handle (first)
	// or the x handle matches an existing row, updates that row's name,
	// institution and wallet and returns its id. A lost insert race on a
	// handle surfaces as ErrDuplicateHandle.
	UpsertUser(ctx context.Context, name, institution, telegram, x, wallet string) (string, error)

	// GetUser returns nil, nil when the id is unknown.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// FindUserByHandle checks the telegram handle first when non-empty,
	// then the x handle. Returns "" when neither matches.
	FindUserByHandle(ctx context.Context, telegram, x string) (string, error)

	// GetTrack returns "" when the user is unknown or has no track yet.
	GetTrack(ctx context.Context, userID string) (string, error)

	// SetTrack overwrites unconditionally; last write wins.
	SetTrack(ctx context.Context, userID, track string) error

	// SaveEvent appends an audit record. Callers treat failures as
	// non-fatal.
	SaveEvent(ctx context.Context, userID, typ string, meta map[string]any) error

	// SaveSubmission persists the artifact bytes first (when present) and
	// only then the metadata row, so a failed blob write leaves no row
	// pointing at a missing file. Status starts as pending.
	SaveSubmission(ctx context.Context, userID string, questIdx int, title, track, text string, file []byte) (string, error)

	// ListSubmissions returns the user's submissions newest first.
	ListSubmissions(ctx context.Context, userID string) ([]models.Submission, error)

	// ListSubmissionsByStatus returns submissions across all users newest
	// first; status "" means all statuses.
	ListSubmissionsByStatus(ctx context.Context, status string) ([]models.Submission, error)

	// SetSubmissionStatus overwrites unconditionally; any status may move
	// to any other. Unknown ids are a no-op.
	SetSubmissionStatus(ctx context.Context, id, status string) error

	// UserSummaryRows returns one row per user ordered by user creation
	// ascending, with derived statuses folded per report.Better.
	UserSummaryRows(ctx context.Context) ([]models.SummaryRow, error)

	// SubmissionRows returns the submission-level export joined with users,
	// ordered by submission creation ascending.
	SubmissionRows(ctx context.Context) ([]models.SubmissionRow, error)

	// RecapStats recomputes the three counts on every call.
	RecapStats(ctx context.Context) (models.RecapStats, error)

	// ListSocialPosts returns submission texts that look like links
	// (prefix "http").
	ListSocialPosts(ctx context.Context) ([]string, error)

	// ArtifactURL resolves a stored file reference to something a reviewer
	// can open: the local path for the embedded backend, a time-limited
	// signed URL for the remote one.
	ArtifactURL(ctx context.Context, filePath string) (string, error)

	Close() error
}

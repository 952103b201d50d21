package sqlite_test

import (
	"context"
	"os"
	"testing"

	"github.com/communityforge/sprint/pkg/models"
)

func TestSaveSubmissionDefaultsPending(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	userID, err := st.UpsertUser(ctx, "Finn", "", "@finn", "", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	subID, err := st.SaveSubmission(ctx, userID, 2, "Follow on X", "Growth", "https://x.com/finn/status/1", nil)
	if err != nil {
		t.Fatalf("save submission: %v", err)
	}
	if subID == "" {
		t.Fatal("expected non-empty submission id")
	}

	subs, err := st.ListSubmissions(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected one submission, got %d", len(subs))
	}
	got := subs[0]
	if got.Status != models.StatusPending {
		t.Fatalf("expected pending status, got %q", got.Status)
	}
	if got.QuestIdx != 2 || got.Title != "Follow on X" || got.Track != "Growth" {
		t.Fatalf("unexpected submission fields: %#v", got)
	}
	if got.Text == nil || *got.Text != "https://x.com/finn/status/1" {
		t.Fatalf("unexpected text: %#v", got.Text)
	}
	if got.FilePath != nil {
		t.Fatalf("expected no artifact path for text-only proof, got %q", *got.FilePath)
	}
	if got.Created == 0 {
		t.Fatal("expected created timestamp to be set")
	}
}

func TestSaveSubmissionWritesArtifact(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	userID, err := st.UpsertUser(ctx, "Gwen", "", "@gwen", "", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	payload := []byte{0x89, 'P', 'N', 'G'}
	if _, err := st.SaveSubmission(ctx, userID, 1, "Join Telegram", "Dev", "", payload); err != nil {
		t.Fatalf("save submission: %v", err)
	}

	subs, err := st.ListSubmissions(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 || subs[0].FilePath == nil {
		t.Fatalf("expected submission with artifact path, got %#v", subs)
	}

	data, err := os.ReadFile(*subs[0].FilePath)
	if err != nil {
		t.Fatalf("expected artifact on disk: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("artifact contents mismatch: got %v", data)
	}

	url, err := st.ArtifactURL(ctx, *subs[0].FilePath)
	if err != nil {
		t.Fatalf("artifact url: %v", err)
	}
	if url != *subs[0].FilePath {
		t.Fatalf("expected stored path back, got %q", url)
	}
}

func TestSaveSubmissionRejectedForUnknownUser(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()

	// foreign key enforcement rejects proofs without an owning user
	if _, err := st.SaveSubmission(context.Background(), "ghost", 1, "Proof", "Dev", "done", nil); err == nil {
		t.Fatal("expected foreign key error for unknown user")
	}
}

func TestListSubmissionsNewestFirst(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	userID, err := st.UpsertUser(ctx, "Hana", "", "@hana", "", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		id, err := st.SaveSubmission(ctx, userID, 1, title, "Dev", "x", nil)
		if err != nil {
			t.Fatalf("save %s: %v", title, err)
		}
		ids = append(ids, id)
	}

	subs, err := st.ListSubmissions(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(subs))
	}
	// insertion order reversed, even when timestamps collide
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if subs[i].ID != want {
			t.Fatalf("position %d: got %q, want %q", i, subs[i].ID, want)
		}
	}
}

func TestSetSubmissionStatusAndFilter(t *testing.T) {
	st, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	userID, err := st.UpsertUser(ctx, "Iris", "", "@iris", "", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	approvedID, err := st.SaveSubmission(ctx, userID, 1, "a", "Dev", "x", nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	pendingID, err := st.SaveSubmission(ctx, userID, 2, "b", "Dev", "y", nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := st.SetSubmissionStatus(ctx, approvedID, models.StatusApproved); err != nil {
		t.Fatalf("set status: %v", err)
	}

	approved, err := st.ListSubmissionsByStatus(ctx, models.StatusApproved)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(approved) != 1 || approved[0].ID != approvedID {
		t.Fatalf("unexpected approved set: %#v", approved)
	}

	pending, err := st.ListSubmissionsByStatus(ctx, models.StatusPending)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != pendingID {
		t.Fatalf("unexpected pending set: %#v", pending)
	}

	all, err := st.ListSubmissionsByStatus(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 submissions in unfiltered list, got %d", len(all))
	}

	// a second review can overturn the first decision
	if err := st.SetSubmissionStatus(ctx, approvedID, models.StatusRejected); err != nil {
		t.Fatalf("re-review: %v", err)
	}
	rejected, err := st.ListSubmissionsByStatus(ctx, models.StatusRejected)
	if err != nil {
		t.Fatalf("list rejected: %v", err)
	}
	if len(rejected) != 1 || rejected[0].ID != approvedID {
		t.Fatalf("expected overturned submission in rejected set: %#v", rejected)
	}
}

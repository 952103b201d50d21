package report_test

import (
	"testing"

	"github.com/communityforge/sprint/internal/report"
	"github.com/communityforge/sprint/pkg/models"
)

func TestBetter(t *testing.T) {
	tests := []struct {
		name string
		cur  string
		next string
		want string
	}{
		{"approved beats rejected", models.StatusApproved, models.StatusRejected, models.StatusApproved},
		{"approved beats pending", models.StatusPending, models.StatusApproved, models.StatusApproved},
		{"rejected beats pending", models.StatusRejected, models.StatusPending, models.StatusRejected},
		{"pending beats absent", "", models.StatusPending, models.StatusPending},
		{"next wins ties", models.StatusRejected, models.StatusRejected, models.StatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := report.Better(tt.cur, tt.next); got != tt.want {
				t.Fatalf("Better(%q, %q) = %q, want %q", tt.cur, tt.next, got, tt.want)
			}
		})
	}
}

func strptr(s string) *string { return &s }

func TestSummarizeApprovalWinsOverDuplicates(t *testing.T) {
	users := []models.User{{ID: "u1", Name: "Alice", Created: 10}}
	subs := []models.Submission{
		{ID: "s1", UserID: "u1", QuestIdx: 1, Status: models.StatusPending, Created: 1},
		{ID: "s2", UserID: "u1", QuestIdx: 1, Status: models.StatusRejected, Created: 2},
		{ID: "s3", UserID: "u1", QuestIdx: 1, Status: models.StatusApproved, Created: 3},
	}

	rows := report.Summarize(users, subs)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].JoinedTelegram != models.StatusApproved {
		t.Fatalf("expected approved for quest 1, got %q", rows[0].JoinedTelegram)
	}
	if rows[0].FollowedX != models.StatusPending {
		t.Fatalf("expected pending default for quest 2, got %q", rows[0].FollowedX)
	}
	if rows[0].Microquest != models.StatusPending {
		t.Fatalf("expected pending default for quest 3, got %q", rows[0].Microquest)
	}
}

func TestSummarizeNoSubmissionsDefaultsPending(t *testing.T) {
	users := []models.User{{ID: "u1", Name: "Bob", Telegram: strptr("@bob"), Created: 5}}

	rows := report.Summarize(users, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	for col, got := range map[string]string{
		"joinedTelegram": row.JoinedTelegram,
		"followedX":      row.FollowedX,
		"microquest":     row.Microquest,
	} {
		if got != models.StatusPending {
			t.Fatalf("expected pending for %s, got %q", col, got)
		}
	}
	if row.Telegram != "@bob" {
		t.Fatalf("expected handle copied into row, got %q", row.Telegram)
	}
}

func TestSummarizeOrdersByUserCreation(t *testing.T) {
	users := []models.User{
		{ID: "u2", Name: "Newer", Created: 20},
		{ID: "u1", Name: "Older", Created: 10},
	}

	rows := report.Summarize(users, nil)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Older" || rows[1].Name != "Newer" {
		t.Fatalf("expected oldest user first, got %q then %q", rows[0].Name, rows[1].Name)
	}
}

func TestSummarizeNormalizesStatusCase(t *testing.T) {
	users := []models.User{{ID: "u1", Created: 1}}
	subs := []models.Submission{
		{ID: "s1", UserID: "u1", QuestIdx: 2, Status: " Approved ", Created: 1},
	}

	rows := report.Summarize(users, subs)
	if rows[0].FollowedX != models.StatusApproved {
		t.Fatalf("expected normalized approved, got %q", rows[0].FollowedX)
	}
}

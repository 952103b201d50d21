package models

// Submission review states. A submission is created pending and only an
// explicit admin action moves it to approved or rejected.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Tracks is the fixed set of program tracks. The third micro-quest is
// derived from the participant's track.
var Tracks = []string{"AI/Data", "Dev", "Design", "Growth"}

// ValidTrack reports whether t is one of the fixed tracks.
func ValidTrack(t string) bool {
	for _, v := range Tracks {
		if v == t {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known submission status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// User is a program participant. Telegram and X handles are optional but
// globally unique when present; profile upserts match on them.
type User struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Institution string  `json:"institution" db:"institution"`
	Telegram    *string `json:"telegram,omitempty" db:"telegram"`
	X           *string `json:"x,omitempty" db:"x"`
	Wallet      *string `json:"wallet,omitempty" db:"wallet"`
	Track       *string `json:"track,omitempty" db:"track"`
	Created     int64   `json:"created" db:"created"`
}

// Submission is a proof artifact for one micro-quest. Title and Track are
// snapshots taken at submission time, not live references; renaming a quest
// later must not rewrite history.
type Submission struct {
	ID       string  `json:"id" db:"id"`
	UserID   string  `json:"user_id" db:"user_id"`
	QuestIdx int     `json:"quest_idx" db:"quest_idx"`
	Title    string  `json:"title" db:"title"`
	Track    string  `json:"track" db:"track"`
	Text     *string `json:"text,omitempty" db:"text"`
	FilePath *string `json:"file_path,omitempty" db:"file_path"`
	Status   string  `json:"status" db:"status"`
	Created  int64   `json:"created" db:"created"`
}

// Event is a write-only audit record.
type Event struct {
	ID       string `json:"id" db:"id"`
	UserID   string `json:"user_id" db:"user_id"`
	Type     string `json:"type" db:"type"`
	MetaJSON string `json:"meta_json" db:"meta_json"`
	Created  int64  `json:"created" db:"created"`
}

// Quest is one entry of a participant's three micro-quests.
type Quest struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
}

// SummaryRow is one flattened per-user reporting row. The three derived
// status columns come from quest indexes 1, 2 and 3 respectively and
// default to pending when no submission exists for the slot.
type SummaryRow struct {
	Name           string `json:"name"`
	Institution    string `json:"institution"`
	Telegram       string `json:"telegram"`
	X              string `json:"x"`
	Track          string `json:"track"`
	JoinedTelegram string `json:"joinedTelegramStatus"`
	FollowedX      string `json:"followedXStatus"`
	Microquest     string `json:"microquestStatus"`
	UserCreated    int64  `json:"-"`
}

// SubmissionRow is one row of the submission-level export, joined with the
// owning user.
type SubmissionRow struct {
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Telegram    string `json:"telegram"`
	X           string `json:"x"`
	QuestIdx    int    `json:"quest_idx"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	Created     int64  `json:"created"`
}

// RecapStats is a point-in-time cardinality snapshot, recomputed on every
// call.
type RecapStats struct {
	Students int64 `json:"students"`
	Subs     int64 `json:"subs"`
	Approved int64 `json:"approved"`
}

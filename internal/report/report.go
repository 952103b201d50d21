// Package report derives the per-user summary view shared by both storage
// backends. Keeping the fold in one place guarantees the two backends cannot
// drift on how duplicate submissions are resolved.
package report

import (
	"sort"
	"strings"

	"github.com/communityforge/sprint/pkg/models"
)

// statusRank orders review states for duplicate resolution. A single
// approval wins over any number of pending or rejected duplicates in the
// same slot.
var statusRank = map[string]int{
	models.StatusApproved: 3,
	models.StatusRejected: 2,
	models.StatusPending:  1,
}

// Better returns whichever of cur and next ranks higher; next wins ties.
// Empty strings rank below every known status.
func Better(cur, next string) string {
	if statusRank[next] >= statusRank[cur] {
		return next
	}
	return cur
}

// Summarize folds all submissions into one row per user. Quest indexes 1, 2
// and 3 map to the joined-telegram, followed-x and microquest columns.
// Missing slots default to pending. Rows are ordered by user creation
// ascending.
func Summarize(users []models.User, subs []models.Submission) []models.SummaryRow {
	type marks struct {
		joined, followed, micro string
	}
	agg := make(map[string]*marks, len(users))
	for _, s := range subs {
		m := agg[s.UserID]
		if m == nil {
			m = &marks{}
			agg[s.UserID] = m
		}
		st := strings.ToLower(strings.TrimSpace(s.Status))
		if st == "" {
			st = models.StatusPending
		}
		switch s.QuestIdx {
		case 1:
			m.joined = Better(m.joined, st)
		case 2:
			m.followed = Better(m.followed, st)
		case 3:
			m.micro = Better(m.micro, st)
		}
	}

	rows := make([]models.SummaryRow, 0, len(users))
	for _, u := range users {
		m := agg[u.ID]
		if m == nil {
			m = &marks{}
		}
		rows = append(rows, models.SummaryRow{
			Name:           u.Name,
			Institution:    u.Institution,
			Telegram:       deref(u.Telegram),
			X:              deref(u.X),
			Track:          deref(u.Track),
			JoinedTelegram: orPending(m.joined),
			FollowedX:      orPending(m.followed),
			Microquest:     orPending(m.micro),
			UserCreated:    u.Created,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].UserCreated < rows[j].UserCreated })
	return rows
}

func orPending(s string) string {
	if s == "" {
		return models.StatusPending
	}
	return s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

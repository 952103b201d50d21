// Package mock is an in-memory store.Store for handler tests.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/communityforge/sprint/internal/report"
	"github.com/communityforge/sprint/pkg/models"
	"github.com/communityforge/sprint/pkg/store"
)

// Store keeps everything in maps guarded by one mutex. Error fields force
// failures for specific operations.
type Store struct {
	mu     sync.Mutex
	users  map[string]*models.User
	subs   map[string]*models.Submission
	events []models.Event
	seq    int

	InitErr    error
	UpsertErr  error
	SaveSubErr error
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users: make(map[string]*models.User),
		subs:  make(map[string]*models.Submission),
	}
}

func (m *Store) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *Store) Init(ctx context.Context) error { return m.InitErr }

func (m *Store) Close() error { return nil }

func (m *Store) UpsertUser(ctx context.Context, name, institution, telegram, x, wallet string) (string, error) {
	if m.UpsertErr != nil {
		return "", m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if id := m.findByHandle(telegram, x); id != "" {
		u := m.users[id]
		u.Name = name
		u.Institution = institution
		u.Wallet = ptrOrNil(wallet)
		return id, nil
	}

	u := &models.User{
		ID:          m.nextID("user"),
		Name:        name,
		Institution: institution,
		Telegram:    ptrOrNil(telegram),
		X:           ptrOrNil(x),
		Wallet:      ptrOrNil(wallet),
		Created:     int64(m.seq),
	}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *Store) findByHandle(telegram, x string) string {
	if telegram != "" {
		for _, u := range m.users {
			if u.Telegram != nil && *u.Telegram == telegram {
				return u.ID
			}
		}
	}
	if x != "" {
		for _, u := range m.users {
			if u.X != nil && *u.X == x {
				return u.ID
			}
		}
	}
	return ""
}

func (m *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *Store) FindUserByHandle(ctx context.Context, telegram, x string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findByHandle(telegram, x), nil
}

func (m *Store) GetTrack(ctx context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok && u.Track != nil {
		return *u.Track, nil
	}
	return "", nil
}

func (m *Store) SetTrack(ctx context.Context, userID, track string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.Track = &track
	}
	return nil
}

func (m *Store) SaveEvent(ctx context.Context, userID, typ string, meta map[string]any) error {
	b, _ := json.Marshal(meta)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, models.Event{
		ID:       m.nextID("event"),
		UserID:   userID,
		Type:     typ,
		MetaJSON: string(b),
		Created:  int64(m.seq),
	})
	return nil
}

// Events returns a copy of the recorded events.
func (m *Store) Events() []models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Event(nil), m.events...)
}

func (m *Store) SaveSubmission(ctx context.Context, userID string, questIdx int, title, track, text string, file []byte) (string, error) {
	if m.SaveSubErr != nil {
		return "", m.SaveSubErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var filePath *string
	if len(file) > 0 {
		p := m.nextID("artifact") + ".png"
		filePath = &p
	}
	s := &models.Submission{
		ID:       m.nextID("sub"),
		UserID:   userID,
		QuestIdx: questIdx,
		Title:    title,
		Track:    track,
		Text:     ptrOrNil(text),
		FilePath: filePath,
		Status:   models.StatusPending,
		Created:  int64(m.seq),
	}
	m.subs[s.ID] = s
	return s.ID, nil
}

func (m *Store) ListSubmissions(ctx context.Context, userID string) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Submission
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Store) ListSubmissionsByStatus(ctx context.Context, status string) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Submission
	for _, s := range m.subs {
		if status == "" || s.Status == status {
			out = append(out, *s)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Store) SetSubmissionStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subs[id]; ok {
		s.Status = status
	}
	return nil
}

func (m *Store) UserSummaryRows(ctx context.Context) ([]models.SummaryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []models.User
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Created < users[j].Created })
	var subs []models.Submission
	for _, s := range m.subs {
		subs = append(subs, *s)
	}
	return report.Summarize(users, subs), nil
}

func (m *Store) SubmissionRows(ctx context.Context) ([]models.SubmissionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SubmissionRow
	for _, s := range m.subs {
		u := m.users[s.UserID]
		if u == nil {
			continue
		}
		out = append(out, models.SubmissionRow{
			Name:        u.Name,
			Institution: u.Institution,
			Telegram:    deref(u.Telegram),
			X:           deref(u.X),
			QuestIdx:    s.QuestIdx,
			Title:       s.Title,
			Status:      s.Status,
			Created:     s.Created,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created < out[j].Created })
	return out, nil
}

func (m *Store) RecapStats(ctx context.Context) (models.RecapStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := models.RecapStats{Students: int64(len(m.users)), Subs: int64(len(m.subs))}
	for _, s := range m.subs {
		if s.Status == models.StatusApproved {
			stats.Approved++
		}
	}
	return stats, nil
}

func (m *Store) ListSocialPosts(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.subs {
		if s.Text != nil && strings.HasPrefix(*s.Text, "http") {
			out = append(out, *s.Text)
		}
	}
	return out, nil
}

func (m *Store) ArtifactURL(ctx context.Context, filePath string) (string, error) {
	return filePath, nil
}

func sortNewestFirst(subs []models.Submission) {
	sort.Slice(subs, func(i, j int) bool { return subs[i].Created > subs[j].Created })
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

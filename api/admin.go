package api

import (
	"crypto/subtle"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/communityforge/sprint/pkg/models"
	"github.com/communityforge/sprint/pkg/store"
)

type AdminHandler struct {
	store         store.Store
	password      string
	jwtSecret     string
	tokenDuration time.Duration
}

func NewAdminHandler(st store.Store, password, jwtSecret string, tokenDuration time.Duration) *AdminHandler {
	return &AdminHandler{store: st, password: password, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges the shared admin password for a short-lived bearer token.
// The password itself is compared verbatim; there are no per-admin accounts.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if h.password == "" || subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		http.Error(w, "wrong password", http.StatusUnauthorized)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		http.Error(w, "error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, loginResponse{Token: tokenStr}, http.StatusOK)
}

// ListSubmissions is the review queue: all submissions, newest first,
// optionally filtered by status.
func (h *AdminHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidStatus(status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	subs, err := h.store.ListSubmissionsByStatus(r.Context(), status)
	if err != nil {
		http.Error(w, "failed to list submissions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, subs, http.StatusOK)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus applies an admin review decision. Any status may overwrite any
// other; there are no automatic transitions anywhere else.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if !models.ValidStatus(req.Status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	if err := h.store.SetSubmissionStatus(r.Context(), id, req.Status); err != nil {
		http.Error(w, "failed to update status", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportUsersCSV streams the per-user summary: one row per participant with
// the three derived status columns.
func (h *AdminHandler) ExportUsersCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.UserSummaryRows(r.Context())
	if err != nil {
		http.Error(w, "failed to build export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="onboarding_users.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "institution", "telegram", "x", "track", "joinedTelegramStatus", "followedXStatus", "microquestStatus"})
	for _, row := range rows {
		_ = cw.Write([]string{row.Name, row.Institution, row.Telegram, row.X, row.Track, row.JoinedTelegram, row.FollowedX, row.Microquest})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logger.Error("write csv", slog.Any("err", err))
	}
}

// ExportSubmissionsCSV streams the submission-level export, oldest first.
func (h *AdminHandler) ExportSubmissionsCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.SubmissionRows(r.Context())
	if err != nil {
		http.Error(w, "failed to build export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="onboarding_proof.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "institution", "telegram", "x", "quest_idx", "title", "status", "created"})
	for _, row := range rows {
		_ = cw.Write([]string{row.Name, row.Institution, row.Telegram, row.X, strconv.Itoa(row.QuestIdx), row.Title, row.Status, strconv.FormatInt(row.Created, 10)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logger.Error("write csv", slog.Any("err", err))
	}
}

// SocialPosts lists submission texts that are links, for the community
// roundup.
func (h *AdminHandler) SocialPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListSocialPosts(r.Context())
	if err != nil {
		http.Error(w, "failed to list posts", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []string{}
	}
	writeJSON(w, posts, http.StatusOK)
}

type artifactResponse struct {
	URL string `json:"url"`
}

// ArtifactURL resolves a stored artifact reference to a previewable
// location.
func (h *AdminHandler) ArtifactURL(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	url, err := h.store.ArtifactURL(r.Context(), path)
	if err != nil {
		http.Error(w, "failed to resolve artifact", http.StatusInternalServerError)
		return
	}
	writeJSON(w, artifactResponse{URL: url}, http.StatusOK)
}

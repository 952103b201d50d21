package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/communityforge/sprint/pkg/store"
)

// maxUploadBytes caps proof images at 10 MiB.
const maxUploadBytes = 10 << 20

type SubmissionsHandler struct {
	store store.Store
}

func NewSubmissionsHandler(st store.Store) *SubmissionsHandler {
	return &SubmissionsHandler{store: st}
}

type createSubmissionResponse struct {
	ID string `json:"id"`
}

// CreateSubmission accepts a multipart form with fields user_id, quest_idx,
// title, track, text and an optional image file. At least one of text and
// file must be present.
func (h *SubmissionsHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	userID := strings.TrimSpace(r.FormValue("user_id"))
	title := strings.TrimSpace(r.FormValue("title"))
	track := strings.TrimSpace(r.FormValue("track"))
	text := strings.TrimSpace(r.FormValue("text"))
	questIdx, err := strconv.Atoi(r.FormValue("quest_idx"))
	if err != nil || questIdx < 1 || questIdx > 3 {
		http.Error(w, "quest_idx must be 1, 2 or 3", http.StatusBadRequest)
		return
	}
	if userID == "" || title == "" {
		http.Error(w, "user_id and title are required", http.StatusBadRequest)
		return
	}

	var fileBytes []byte
	if f, _, err := r.FormFile("file"); err == nil {
		defer f.Close()
		fileBytes, err = io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			http.Error(w, "failed to read file", http.StatusBadRequest)
			return
		}
	}
	if text == "" && len(fileBytes) == 0 {
		http.Error(w, "text or file is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	id, err := h.store.SaveSubmission(ctx, userID, questIdx, title, track, text, fileBytes)
	if err != nil {
		http.Error(w, "failed to save submission", http.StatusInternalServerError)
		return
	}

	if err := h.store.SaveEvent(ctx, userID, "submission_created", map[string]any{"quest_idx": questIdx, "title": title}); err != nil {
		logger.Warn("save event failed", slog.Any("err", err))
	}

	writeJSON(w, createSubmissionResponse{ID: id}, http.StatusCreated)
}

func (h *SubmissionsHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	subs, err := h.store.ListSubmissions(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list submissions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, subs, http.StatusOK)
}

// Stats reports the public recap counters.
func (h *SubmissionsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.RecapStats(r.Context())
	if err != nil {
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats, http.StatusOK)
}

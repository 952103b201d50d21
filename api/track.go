package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/communityforge/sprint/internal/quests"
	"github.com/communityforge/sprint/pkg/models"
	"github.com/communityforge/sprint/pkg/store"
)

type TrackHandler struct {
	store    store.Store
	provider *quests.Provider
}

func NewTrackHandler(st store.Store, provider *quests.Provider) *TrackHandler {
	return &TrackHandler{store: st, provider: provider}
}

type trackResponse struct {
	Track string `json:"track"`
}

func (h *TrackHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	track, err := h.store.GetTrack(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load track", http.StatusInternalServerError)
		return
	}
	writeJSON(w, trackResponse{Track: track}, http.StatusOK)
}

type setTrackRequest struct {
	UserID string `json:"user_id"`
	Track  string `json:"track"`
}

// SetTrack records an explicit track choice. The user's pick always
// overwrites whatever the suggester stored earlier.
func (h *TrackHandler) SetTrack(w http.ResponseWriter, r *http.Request) {
	var req setTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || !models.ValidTrack(req.Track) {
		http.Error(w, "user_id and a valid track are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if err := h.store.SetTrack(ctx, req.UserID, req.Track); err != nil {
		http.Error(w, "failed to set track", http.StatusInternalServerError)
		return
	}
	if err := h.store.SaveEvent(ctx, req.UserID, "track_set", map[string]any{"track": req.Track}); err != nil {
		logger.Warn("save event failed", slog.Any("err", err))
	}

	writeJSON(w, trackResponse{Track: req.Track}, http.StatusOK)
}

type suggestTrackRequest struct {
	UserID string `json:"user_id"`
}

// SuggestTrack asks the provider to pick a track from the stored profile
// and persists the suggestion. Suggestion never fails; without a usable
// model answer the default track is stored.
func (h *TrackHandler) SuggestTrack(w http.ResponseWriter, r *http.Request) {
	var req suggestTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	u, err := h.store.GetUser(ctx, req.UserID)
	if err != nil {
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	track := h.provider.SuggestTrack(ctx, u)
	if err := h.store.SetTrack(ctx, req.UserID, track); err != nil {
		http.Error(w, "failed to set track", http.StatusInternalServerError)
		return
	}
	if err := h.store.SaveEvent(ctx, req.UserID, "track_suggested", map[string]any{"track": track}); err != nil {
		logger.Warn("save event failed", slog.Any("err", err))
	}

	writeJSON(w, trackResponse{Track: track}, http.StatusOK)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/communityforge/sprint/pkg/store"
)

type ProfileHandler struct {
	store store.Store
}

func NewProfileHandler(st store.Store) *ProfileHandler {
	return &ProfileHandler{store: st}
}

type upsertProfileRequest struct {
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Telegram    string `json:"telegram"`
	X           string `json:"x"`
	Wallet      string `json:"wallet"`
}

type upsertProfileResponse struct {
	ID string `json:"id"`
}

// UpsertProfile matches an existing participant by handle or creates a new
// one. A lost handle race comes back as 409; the client simply retries.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req upsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Telegram = strings.TrimSpace(req.Telegram)
	req.X = strings.TrimSpace(req.X)
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	id, err := h.store.UpsertUser(ctx, req.Name, req.Institution, req.Telegram, req.X, req.Wallet)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateHandle) {
			http.Error(w, "handle already taken, please retry", http.StatusConflict)
			return
		}
		http.Error(w, "failed to save profile", http.StatusInternalServerError)
		return
	}

	if err := h.store.SaveEvent(ctx, id, "profile_upserted", map[string]any{"telegram": req.Telegram, "x": req.X}); err != nil {
		logger.Warn("save event failed", slog.Any("err", err))
	}

	writeJSON(w, upsertProfileResponse{ID: id}, http.StatusOK)
}

func (h *ProfileHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	u, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, u, http.StatusOK)
}

// LookupUser resolves a user id from a telegram or x handle.
func (h *ProfileHandler) LookupUser(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	telegram := strings.TrimSpace(q.Get("telegram"))
	x := strings.TrimSpace(q.Get("x"))
	if telegram == "" && x == "" {
		http.Error(w, "telegram or x is required", http.StatusBadRequest)
		return
	}

	id, err := h.store.FindUserByHandle(r.Context(), telegram, x)
	if err != nil {
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	if id == "" {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, upsertProfileResponse{ID: id}, http.StatusOK)
}

package api

import (
	"net/http"

	"github.com/communityforge/sprint/internal/quests"
	"github.com/communityforge/sprint/pkg/models"
)

type QuestsHandler struct {
	provider *quests.Provider
}

func NewQuestsHandler(provider *quests.Provider) *QuestsHandler {
	return &QuestsHandler{provider: provider}
}

// ListQuests returns the three micro-quests for a track.
func (h *QuestsHandler) ListQuests(w http.ResponseWriter, r *http.Request) {
	track := r.URL.Query().Get("track")
	if !models.ValidTrack(track) {
		http.Error(w, "a valid track is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, h.provider.ForTrack(r.Context(), track), http.StatusOK)
}

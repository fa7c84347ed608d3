package handlers

import (
	"net/http"

	"github.com/castwave/castwave/internal/voice"
)

// VoicesHandler lists the reference recordings available for cloning.
type VoicesHandler struct {
	library *voice.Library
}

func NewVoicesHandler(lib *voice.Library) *VoicesHandler {
	return &VoicesHandler{library: lib}
}

func (h *VoicesHandler) List(w http.ResponseWriter, r *http.Request) {
	voices, err := h.library.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"voices": voices, "count": len(voices)})
}

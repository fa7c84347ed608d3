package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/castwave/castwave/internal/store"
)

// DownloadHandler serves generated WAV files. Only paths inside the
// outputs directory are servable.
type DownloadHandler struct {
	outputs *store.Store
}

func NewDownloadHandler(outputs *store.Store) *DownloadHandler {
	return &DownloadHandler{outputs: outputs}
}

func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	requested := r.URL.Query().Get("path")
	if requested == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path parameter required"})
		return
	}

	path, err := h.outputs.Resolve(requested)
	if errors.Is(err, store.ErrOutsideOutputs) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "file not found"})
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	w.Header().Set("Content-Type", "audio/wav")
	http.ServeFile(w, r, path)
}

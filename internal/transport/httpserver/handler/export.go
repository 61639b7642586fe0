package handler

import (
	"fmt"
	"net/http"
	"strconv"
)

func (h *Handlers) ExportMembers(w http.ResponseWriter, r *http.Request) {
	file, err := h.Directory.ExportMembers(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.log.Warn("http: export write failed", "error", err)
	}
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	directorydomain "directory-app-go/internal/domain/directory"
)

type importWarningResponse struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

type importResponse struct {
	BatchID  string                  `json:"batchId"`
	Imported int                     `json:"imported"`
	Skipped  int                     `json:"skipped"`
	Warnings []importWarningResponse `json:"warnings"`
}

func (h *Handlers) ImportMembers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+uploadOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeUploadError(w, err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	var status directorydomain.Status
	if raw := strings.TrimSpace(firstNonEmpty(r.FormValue("status"), r.URL.Query().Get("status"))); raw != "" {
		parsed, ok := directorydomain.ParseStatus(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
			return
		}
		status = parsed
	}

	result, err := h.Directory.ImportMembers(r.Context(), file, status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	warnings := make([]importWarningResponse, 0, len(result.Warnings))
	for _, warning := range result.Warnings {
		warnings = append(warnings, importWarningResponse{
			Row:     warning.Row,
			Column:  warning.Column,
			Message: warning.Message,
		})
	}

	writeJSON(w, http.StatusOK, importResponse{
		BatchID:  result.BatchID,
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Warnings: warnings,
	})
}

func (h *Handlers) writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "upload exceeds size limit")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
}

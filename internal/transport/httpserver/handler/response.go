package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	directorydomain "directory-app-go/internal/domain/directory"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps directory errors onto the statuses the admin UI branches on.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *directorydomain.ValidationError
	var storage *directorydomain.StorageError

	switch {
	case errors.Is(err, directorydomain.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.As(err, &validation):
		h.log.BusinessError("http: invalid request", err, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid_request", validation.Error())
	case errors.As(err, &storage):
		h.log.InternalError("http: storage failure", err, "path", r.URL.Path, "op", storage.Op)
		writeError(w, http.StatusInternalServerError, "storage_error", "storage failure")
	default:
		h.log.InternalError("http: unexpected failure", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

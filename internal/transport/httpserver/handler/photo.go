package handler

import (
	"io"
	"net/http"
)

type photoResponse struct {
	Success  bool           `json:"success"`
	ImageURL *string        `json:"imageUrl"`
	Member   memberResponse `json:"member"`
}

func (h *Handlers) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseMemberID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+uploadOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeUploadError(w, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart field \"image\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to read image")
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "upload exceeds size limit")
		return
	}

	member, err := h.Directory.AttachPhoto(r.Context(), id, header.Filename, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, photoResponse{
		Success:  true,
		ImageURL: member.ImageURL,
		Member:   toMemberResponse(*member),
	})
}

package handler

import (
	"net/http"

	directorydomain "directory-app-go/internal/domain/directory"
)

type registerMemberRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Organization   string `json:"organization"`
	Position       string `json:"position"`
	State          string `json:"state"`
	Branch         string `json:"branch"`
	Zone           string `json:"zone"`
	Gender         string `json:"gender"`
	DateOfBirth    string `json:"dateOfBirth"`
	DateOfMarriage string `json:"dateOfMarriage"`
}

// RegisterMember is the public self-registration endpoint. New entries always wait for moderation.
func (h *Handlers) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req registerMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	dateOfBirth, err := parseDateParam(req.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "dateOfBirth must be YYYY-MM-DD")
		return
	}
	dateOfMarriage, err := parseDateParam(req.DateOfMarriage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "dateOfMarriage must be YYYY-MM-DD")
		return
	}

	member, err := h.Directory.RegisterMember(r.Context(), directorydomain.Attributes{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Organization:   req.Organization,
		Position:       req.Position,
		State:          req.State,
		Branch:         req.Branch,
		Zone:           req.Zone,
		Gender:         req.Gender,
		DateOfBirth:    dateOfBirth,
		DateOfMarriage: dateOfMarriage,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(*member))
}

// ApprovedRoster lists approved members only, whatever status the caller asks for.
func (h *Handlers) ApprovedRoster(w http.ResponseWriter, r *http.Request) {
	query, err := parseDirectoryQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Directory.ApprovedRoster(r.Context(), query)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberListResponse(result))
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	directorydomain "directory-app-go/internal/domain/directory"
	"directory-app-go/internal/transport/httpserver/middleware"
)

type memberResponse struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	Organization   string     `json:"organization"`
	Position       string     `json:"position"`
	State          string     `json:"state"`
	Branch         string     `json:"branch"`
	Zone           string     `json:"zone"`
	Gender         string     `json:"gender"`
	DateOfBirth    *string    `json:"dateOfBirth"`
	DateOfMarriage *string    `json:"dateOfMarriage"`
	ImageURL       *string    `json:"imageUrl"`
	Status         string     `json:"status"`
	ModeratedBy    *string    `json:"moderatedBy,omitempty"`
	ModeratedAt    *time.Time `json:"moderatedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type memberListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Members  []memberResponse `json:"members"`
}

type statusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type updateMemberRequest struct {
	Name           *string      `json:"name"`
	Email          *string      `json:"email"`
	Phone          *string      `json:"phone"`
	Address        *string      `json:"address"`
	Organization   *string      `json:"organization"`
	Position       *string      `json:"position"`
	State          *string      `json:"state"`
	Branch         *string      `json:"branch"`
	Zone           *string      `json:"zone"`
	Gender         *string      `json:"gender"`
	DateOfBirth    optionalDate `json:"dateOfBirth"`
	DateOfMarriage optionalDate `json:"dateOfMarriage"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	query, err := parseDirectoryQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Directory.Search(r.Context(), query)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberListResponse(result))
}

func (h *Handlers) MemberStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Directory.StatusCounts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	response := make([]statusCountResponse, 0, len(counts))
	for _, count := range counts {
		response = append(response, statusCountResponse{Status: string(count.Status), Count: count.Count})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"counts": response})
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseMemberID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	member, err := h.Directory.GetMember(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseMemberID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		var invalidDate *dateError
		if errors.As(err, &invalidDate) {
			writeError(w, http.StatusBadRequest, "invalid_request", invalidDate.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	patch := directorydomain.MemberPatch{
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
		DateOfBirth:    req.DateOfBirth.change(),
		DateOfMarriage: req.DateOfMarriage.change(),
	}

	updated, err := h.Directory.UpdateMember(r.Context(), id, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*updated))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseMemberID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Directory.DeleteMember(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) ApproveMember(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.Directory.Approve)
}

func (h *Handlers) RejectMember(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.Directory.Reject)
}

type moderateFunc func(ctx context.Context, id uint, actorID string) (*directorydomain.Member, error)

func (h *Handlers) moderate(w http.ResponseWriter, r *http.Request, action moderateFunc) {
	id, err := parseMemberID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	member, err := action(r.Context(), id, user.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func toMemberListResponse(result *directorydomain.SearchResult) memberListResponse {
	members := make([]memberResponse, 0, len(result.Members))
	for _, member := range result.Members {
		members = append(members, toMemberResponse(member))
	}
	return memberListResponse{
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		Members:  members,
	}
}

func toMemberResponse(member directorydomain.Member) memberResponse {
	return memberResponse{
		ID:             member.ID,
		Name:           member.Name,
		Email:          member.Email,
		Phone:          member.Phone,
		Address:        member.Address,
		Organization:   member.Organization,
		Position:       member.Position,
		State:          member.State,
		Branch:         member.Branch,
		Zone:           member.Zone,
		Gender:         member.Gender,
		DateOfBirth:    formatDate(member.DateOfBirth),
		DateOfMarriage: formatDate(member.DateOfMarriage),
		ImageURL:       member.ImageURL,
		Status:         string(member.Status),
		ModeratedBy:    member.ModeratedBy,
		ModeratedAt:    member.ModeratedAt,
		CreatedAt:      member.CreatedAt,
		UpdatedAt:      member.UpdatedAt,
	}
}

func formatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(dateLayout)
	return &formatted
}

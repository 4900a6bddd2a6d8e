package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/response"
)

type createHouseholdRequest struct {
	Name string `json:"name"`
}

// CreateHousehold handles POST /households.
func (h *Handler) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	var body createHouseholdRequest
	if !decodeBody(w, r, &body) {
		return
	}

	household, err := h.households.CreateHousehold(r.Context(), req, body.Name)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, household)
}

// ListUserHouseholds handles GET /households.
func (h *Handler) ListUserHouseholds(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	households, err := h.households.ListUserHouseholds(r.Context(), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, households)
}

// GetHouseholdOverview handles GET /households/{householdID}/overview.
func (h *Handler) GetHouseholdOverview(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	overview, err := h.households.GetOverview(r.Context(), chi.URLParam(r, "householdID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, overview)
}

// ListHouseholdMembers handles GET /households/{householdID}/members.
func (h *Handler) ListHouseholdMembers(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	members, err := h.households.ListMembers(r.Context(), chi.URLParam(r, "householdID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, members)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateMemberRole handles PATCH /households/{householdID}/members/{memberID}/role.
func (h *Handler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	var body updateRoleRequest
	if !decodeBody(w, r, &body) {
		return
	}

	role, err := domain.ParseRole(body.Role)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	err = h.households.UpdateMemberRole(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "memberID"), req.UserID, role)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"result": "updated"})
}

// RemoveMember handles DELETE /households/{householdID}/members/{memberID}.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	err := h.households.RemoveMember(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "memberID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"result": "removed"})
}

// LeaveHousehold handles POST /households/{householdID}/leave.
func (h *Handler) LeaveHousehold(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	if err := h.households.LeaveHousehold(r.Context(), chi.URLParam(r, "householdID"), req.UserID); err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"result": "left"})
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bencohensolal/seniorhub/internal/usecase"
	"github.com/bencohensolal/seniorhub/pkg/response"
)

type createBulkRequest struct {
	Users []usecase.InvitationCandidate `json:"users"`
}

// CreateBulkInvitations handles POST /households/{householdID}/invitations.
// The rate-limit check and the caregiver check both run before any state
// mutation.
func (h *Handler) CreateBulkInvitations(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	householdID := chi.URLParam(r, "householdID")

	var body createBulkRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if _, err := h.engine.Access().EnsureCaregiver(r.Context(), req.UserID, householdID); err != nil {
		response.DomainError(w, err)
		return
	}

	if !h.inviteLimiter.Allow(req.UserID) {
		response.Error(w, http.StatusTooManyRequests, "Invite rate limit exceeded. Try again later.")
		return
	}

	result, err := h.engine.CreateBulk(r.Context(), householdID, req.UserID, body.Users)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	h.log.Info("bulk invitations created",
		zap.String("householdId", householdID),
		zap.Int("accepted", result.AcceptedCount),
		zap.Int("skipped", result.SkippedDuplicates),
	)
	response.JSON(w, http.StatusCreated, result)
}

// ResolveInvitation handles GET /invitations/resolve?token=... (public).
func (h *Handler) ResolveInvitation(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.engine.Resolve(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, resolved)
}

type acceptRequest struct {
	Token        string `json:"token"`
	InvitationID string `json:"invitationId"`
}

// AcceptInvitation handles POST /invitations/accept.
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	var body acceptRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &body) {
		return
	}

	result, err := h.engine.Accept(r.Context(), req, usecase.AcceptInput{
		Token:        body.Token,
		InvitationID: body.InvitationID,
	})
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// AutoAcceptInvitations handles POST /invitations/auto-accept.
func (h *Handler) AutoAcceptInvitations(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	results, err := h.engine.AutoAcceptPending(r.Context(), req)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"accepted": results})
}

// ListMyPendingInvitations handles GET /invitations/pending.
func (h *Handler) ListMyPendingInvitations(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	pending, err := h.engine.ListPending(r.Context(), req.Email)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, pending)
}

// ListHouseholdInvitations handles GET /households/{householdID}/invitations.
func (h *Handler) ListHouseholdInvitations(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	invitations, err := h.engine.ListHouseholdInvitations(r.Context(), chi.URLParam(r, "householdID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, invitations)
}

// CancelInvitation handles DELETE /households/{householdID}/invitations/{invitationID}.
func (h *Handler) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	err := h.engine.Cancel(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "invitationID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"result": "cancelled"})
}

// ResendInvitation handles POST /households/{householdID}/invitations/{invitationID}/resend.
func (h *Handler) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	result, err := h.engine.Resend(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "invitationID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// AcceptLinkRedirect handles GET /invitations/accept-link?token=... — the
// smart redirect URL embedded in invitation emails.
func (h *Handler) AcceptLinkRedirect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Error(w, http.StatusBadRequest, "Token is required.")
		return
	}
	http.Redirect(w, r, h.engine.Links().Build(token).DeepLinkURL, http.StatusFound)
}

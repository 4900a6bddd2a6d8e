package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

// ResolvedInvitation is the public preview of an invitation shown before
// authentication. It never carries the raw token, and the invitee email is
// masked because the caller is untrusted at this point.
type ResolvedInvitation struct {
	InvitationID     string                  `json:"invitationId"`
	HouseholdID      string                  `json:"householdId"`
	HouseholdName    string                  `json:"householdName"`
	InviterFirstName string                  `json:"inviterFirstName"`
	InviteeEmail     string                  `json:"inviteeEmail"`
	AssignedRole     domain.HouseholdRole    `json:"assignedRole"`
	Status           domain.InvitationStatus `json:"status"`
	TokenExpiresAt   time.Time               `json:"tokenExpiresAt"`
}

// Resolve previews an invitation by token. Expiry is intentionally not
// enforced here: the preview shows invite details prior to authentication,
// and only acceptance rejects a lapsed token.
func (e *InvitationEngine) Resolve(ctx context.Context, token string) (ResolvedInvitation, error) {
	if token == "" {
		return ResolvedInvitation{}, xerrors.Validation("Token is required.")
	}

	inv, err := e.invitations.FindInvitationByToken(ctx, token)
	if err != nil {
		return ResolvedInvitation{}, err
	}

	resolved := ResolvedInvitation{
		InvitationID:   inv.ID,
		HouseholdID:    inv.HouseholdID,
		InviteeEmail:   domain.MaskEmail(inv.InviteeEmail),
		AssignedRole:   inv.AssignedRole,
		Status:         inv.EffectiveStatus(e.now()),
		TokenExpiresAt: inv.TokenExpiresAt,
	}

	if household, err := e.households.FindHouseholdByID(ctx, inv.HouseholdID); err == nil {
		resolved.HouseholdName = household.Name
	}
	if inviter, err := e.members.FindMemberByUser(ctx, inv.InviterUserID, inv.HouseholdID); err == nil {
		resolved.InviterFirstName = inviter.FirstName
	}

	return resolved, nil
}

// AcceptInput selects the invitation to accept. Exactly one of Token or
// InvitationID may be set; with neither, the single pending invitation
// addressed to the requester's own email is auto-matched.
type AcceptInput struct {
	Token        string
	InvitationID string
}

// AcceptResult is returned on a successful acceptance.
type AcceptResult struct {
	HouseholdID string               `json:"householdId"`
	Role        domain.HouseholdRole `json:"role"`
}

// Accept transitions a pending invitation to accepted and creates (or
// reactivates) the requester's household membership. The status check runs
// strictly before the expiry check, so an already-cancelled expired invite
// reports "not pending", not "expired". The compare-and-swap in the store
// guarantees a single winner under concurrent accepts.
func (e *InvitationEngine) Accept(ctx context.Context, requester domain.Requester, input AcceptInput) (AcceptResult, error) {
	if input.Token != "" && input.InvitationID != "" {
		return AcceptResult{}, xerrors.Validation("Provide either token or invitationId, not both.")
	}

	inv, err := e.lookupForAccept(ctx, requester, input)
	if err != nil {
		return AcceptResult{}, err
	}

	now := e.now()
	if inv.Status != domain.InvitationPending {
		return AcceptResult{}, xerrors.Conflict("Invitation is not pending.")
	}
	if inv.Expired(now) {
		return AcceptResult{}, xerrors.Conflict("Invitation expired. Ask for a new invitation to be sent.")
	}

	if err := e.invitations.TransitionStatus(ctx, inv.ID, domain.InvitationAccepted, now); err != nil {
		// A concurrent accept or cancel won the race; report the
		// post-transition state.
		return AcceptResult{}, err
	}

	if err := e.ensureMembership(ctx, requester, inv, now); err != nil {
		// The invitation is already accepted; membership is the part that
		// must not be lost, so this is surfaced rather than swallowed.
		e.log.Error("membership creation after accept failed",
			zap.String("invitationId", inv.ID), zap.Error(err))
		return AcceptResult{}, err
	}

	e.logAudit(ctx, domain.AuditEvent{
		HouseholdID: inv.HouseholdID,
		ActorUserID: requester.UserID,
		Action:      domain.AuditInvitationAccepted,
		EntityID:    inv.ID,
	})

	return AcceptResult{HouseholdID: inv.HouseholdID, Role: inv.AssignedRole}, nil
}

func (e *InvitationEngine) lookupForAccept(ctx context.Context, requester domain.Requester, input AcceptInput) (domain.Invitation, error) {
	switch {
	case input.Token != "":
		return e.invitations.FindInvitationByToken(ctx, input.Token)
	case input.InvitationID != "":
		return e.invitations.FindInvitationByID(ctx, input.InvitationID)
	}

	email := domain.NormalizeEmail(requester.Email)
	pending, err := e.invitations.FindPendingInvitationsByEmail(ctx, email)
	if err != nil {
		return domain.Invitation{}, err
	}

	now := e.now()
	var candidates []domain.Invitation
	for _, inv := range pending {
		if !inv.Expired(now) {
			candidates = append(candidates, inv)
		}
	}

	switch len(candidates) {
	case 0:
		return domain.Invitation{}, xerrors.NotFound("Invitation not found.")
	case 1:
		return candidates[0], nil
	default:
		return domain.Invitation{}, xerrors.Validation("Multiple pending invitations found; provide a token or invitationId.")
	}
}

// ensureMembership creates the membership granted by the invitation, or
// reactivates a removed one. The accept CAS already serialized us, so at
// most one caller ever reaches this point per invitation.
func (e *InvitationEngine) ensureMembership(ctx context.Context, requester domain.Requester, inv domain.Invitation, now time.Time) error {
	existing, err := e.members.FindMemberByUser(ctx, requester.UserID, inv.HouseholdID)
	switch {
	case err == nil && existing.IsActive():
		return nil
	case err == nil:
		return e.members.ReactivateMember(ctx, existing.ID, inv.AssignedRole, now)
	case !xerrors.IsKind(err, xerrors.KindNotFound):
		return err
	}

	return e.members.CreateMember(ctx, domain.Member{
		ID:          e.newID(),
		HouseholdID: inv.HouseholdID,
		UserID:      requester.UserID,
		Email:       domain.NormalizeEmail(requester.Email),
		FirstName:   firstNonEmpty(requester.FirstName, inv.InviteeFirstName),
		LastName:    firstNonEmpty(requester.LastName, inv.InviteeLastName),
		Role:        inv.AssignedRole,
		Status:      domain.MemberActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// AutoAcceptPending accepts every pending, non-expired invitation addressed
// to the requester's email. Used at first login so a fresh account lands in
// its households without handling tokens.
func (e *InvitationEngine) AutoAcceptPending(ctx context.Context, requester domain.Requester) ([]AcceptResult, error) {
	email := domain.NormalizeEmail(requester.Email)
	pending, err := e.invitations.FindPendingInvitationsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	now := e.now()
	results := []AcceptResult{}
	for _, inv := range pending {
		if inv.Expired(now) {
			continue
		}
		res, err := e.Accept(ctx, requester, AcceptInput{InvitationID: inv.ID})
		if err != nil {
			// Lost races and lapsed tokens are expected here; anything
			// else is logged and skipped so one bad record cannot block
			// the rest.
			if !xerrors.IsKind(err, xerrors.KindConflict) {
				e.log.Warn("auto-accept skipped invitation",
					zap.String("invitationId", inv.ID), zap.Error(err))
			}
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

// PendingInvitation is the requester-facing projection of one pending
// invitation; it never exposes the token.
type PendingInvitation struct {
	InvitationID   string               `json:"invitationId"`
	HouseholdID    string               `json:"householdId"`
	HouseholdName  string               `json:"householdName"`
	AssignedRole   domain.HouseholdRole `json:"assignedRole"`
	TokenExpiresAt time.Time            `json:"tokenExpiresAt"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// ListPending returns the requester's pending, non-expired invitations
// across households. Expired-but-still-pending records are filtered at view
// time; their stored status remains pending.
func (e *InvitationEngine) ListPending(ctx context.Context, requesterEmail string) ([]PendingInvitation, error) {
	email := domain.NormalizeEmail(requesterEmail)
	pending, err := e.invitations.FindPendingInvitationsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	now := e.now()
	out := []PendingInvitation{}
	for _, inv := range pending {
		if inv.Expired(now) {
			continue
		}
		item := PendingInvitation{
			InvitationID:   inv.ID,
			HouseholdID:    inv.HouseholdID,
			AssignedRole:   inv.AssignedRole,
			TokenExpiresAt: inv.TokenExpiresAt,
			CreatedAt:      inv.CreatedAt,
		}
		if household, err := e.households.FindHouseholdByID(ctx, inv.HouseholdID); err == nil {
			item.HouseholdName = household.Name
		}
		out = append(out, item)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

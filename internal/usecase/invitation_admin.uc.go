package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/internal/mailer"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

// Cancel transitions a pending invitation to cancelled. Caregiver-only.
func (e *InvitationEngine) Cancel(ctx context.Context, householdID, invitationID, requesterUserID string) error {
	if _, err := e.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return err
	}

	inv, err := e.invitations.FindInvitationByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.HouseholdID != householdID {
		return xerrors.NotFound("Invitation not found.")
	}

	if err := e.invitations.TransitionStatus(ctx, inv.ID, domain.InvitationCancelled, e.now()); err != nil {
		return err
	}

	e.logAudit(ctx, domain.AuditEvent{
		HouseholdID: householdID,
		ActorUserID: requesterUserID,
		Action:      domain.AuditInvitationCancelled,
		EntityID:    inv.ID,
	})
	return nil
}

// ResendResult carries the regenerated invitation metadata. The new token
// is only ever delivered through the email channel.
type ResendResult struct {
	NewExpiresAt  time.Time `json:"newExpiresAt"`
	AcceptLinkURL string    `json:"acceptLinkUrl"`
	DeepLinkURL   string    `json:"deepLinkUrl"`
	FallbackURL   string    `json:"fallbackUrl,omitempty"`
}

// Resend reissues the token of a pending invitation with a fresh 72-hour
// expiry and enqueues a new delivery. The old token becomes permanently
// invalid; there is no grace overlap.
func (e *InvitationEngine) Resend(ctx context.Context, householdID, invitationID, requesterUserID string) (ResendResult, error) {
	if _, err := e.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return ResendResult{}, err
	}

	inv, err := e.invitations.FindInvitationByID(ctx, invitationID)
	if err != nil {
		return ResendResult{}, err
	}
	if inv.HouseholdID != householdID {
		return ResendResult{}, xerrors.NotFound("Invitation not found.")
	}
	if inv.Status != domain.InvitationPending {
		return ResendResult{}, xerrors.Conflict("Invitation is not pending.")
	}

	now := e.now()
	_, links, err := e.reissue(ctx, inv.ID, now)
	if err != nil {
		return ResendResult{}, err
	}

	e.queue.EnqueueBulk([]mailer.Job{{
		InvitationID:     inv.ID,
		InviteeEmail:     inv.InviteeEmail,
		InviteeFirstName: inv.InviteeFirstName,
		AssignedRole:     inv.AssignedRole,
		AcceptLinkURL:    links.AcceptLinkURL,
		DeepLinkURL:      links.DeepLinkURL,
		FallbackURL:      links.FallbackURL,
	}})

	e.logAudit(ctx, domain.AuditEvent{
		HouseholdID: householdID,
		ActorUserID: requesterUserID,
		Action:      domain.AuditInvitationResent,
		EntityID:    inv.ID,
	})

	return ResendResult{
		NewExpiresAt:  now.Add(domain.InvitationTTL),
		AcceptLinkURL: links.AcceptLinkURL,
		DeepLinkURL:   links.DeepLinkURL,
		FallbackURL:   links.FallbackURL,
	}, nil
}

// HouseholdInvitation is the caregiver-facing projection of one invitation.
type HouseholdInvitation struct {
	InvitationID   string                  `json:"invitationId"`
	InviteeEmail   string                  `json:"inviteeEmail"`
	InviteeName    string                  `json:"inviteeName"`
	AssignedRole   domain.HouseholdRole    `json:"assignedRole"`
	Status         domain.InvitationStatus `json:"status"`
	TokenExpiresAt time.Time               `json:"tokenExpiresAt"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// ListHouseholdInvitations returns all invitations of a household with
// their effective status. Member-only.
func (e *InvitationEngine) ListHouseholdInvitations(ctx context.Context, householdID, requesterUserID string) ([]HouseholdInvitation, error) {
	if _, err := e.access.EnsureMember(ctx, requesterUserID, householdID); err != nil {
		return nil, err
	}

	invitations, err := e.invitations.ListHouseholdInvitations(ctx, householdID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	out := []HouseholdInvitation{}
	for _, inv := range invitations {
		name := strings.TrimSpace(inv.InviteeFirstName + " " + inv.InviteeLastName)
		out = append(out, HouseholdInvitation{
			InvitationID:   inv.ID,
			InviteeEmail:   inv.InviteeEmail,
			InviteeName:    name,
			AssignedRole:   inv.AssignedRole,
			Status:         inv.EffectiveStatus(now),
			TokenExpiresAt: inv.TokenExpiresAt,
			CreatedAt:      inv.CreatedAt,
		})
	}
	return out, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/internal/mailer"
	"github.com/bencohensolal/seniorhub/pkg/id"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

const maxBulkCandidates = 50

// InvitationEngine orchestrates the invitation lifecycle: bulk creation,
// resolution, acceptance, cancellation and resend. Every transition either
// produces or consumes a delivery job, but delivery outcomes never flow
// back into lifecycle state.
type InvitationEngine struct {
	invitations InvitationStore
	members     MemberStore
	households  HouseholdStore
	audit       AuditStore
	access      *AccessValidator
	queue       Enqueuer
	links       mailer.LinkBuilder
	log         *zap.Logger

	now      func() time.Time
	newID    func() string
	newToken func() (string, error)
}

type InvitationEngineDeps struct {
	Invitations InvitationStore
	Members     MemberStore
	Households  HouseholdStore
	Audit       AuditStore
	Queue       Enqueuer
	Links       mailer.LinkBuilder
	Log         *zap.Logger
}

func NewInvitationEngine(deps InvitationEngineDeps) *InvitationEngine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &InvitationEngine{
		invitations: deps.Invitations,
		members:     deps.Members,
		households:  deps.Households,
		audit:       deps.Audit,
		access:      NewAccessValidator(deps.Members),
		queue:       deps.Queue,
		links:       deps.Links,
		log:         log,
		now:         time.Now,
		newID:       id.New,
		newToken:    id.NewToken,
	}
}

// WithClock overrides the time source.
func (e *InvitationEngine) WithClock(now func() time.Time) *InvitationEngine {
	e.now = now
	return e
}

// WithIDGenerators overrides id and token generation.
func (e *InvitationEngine) WithIDGenerators(newID func() string, newToken func() (string, error)) *InvitationEngine {
	if newID != nil {
		e.newID = newID
	}
	if newToken != nil {
		e.newToken = newToken
	}
	return e
}

// Access exposes the validator so the boundary can run the caregiver
// check before consuming a rate-limit slot.
func (e *InvitationEngine) Access() *AccessValidator { return e.access }

// Links exposes the link builder for the accept-link redirect.
func (e *InvitationEngine) Links() mailer.LinkBuilder { return e.links }

// InvitationCandidate is one invitee in a bulk-create request.
type InvitationCandidate struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// CandidateError reports why one candidate was rejected without aborting
// the rest of the batch.
type CandidateError struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// DeliveryReceipt is returned for each invitation that was handed to the
// delivery queue. It never carries the token.
type DeliveryReceipt struct {
	InvitationID  string `json:"invitationId"`
	InviteeEmail  string `json:"inviteeEmail"`
	AcceptLinkURL string `json:"acceptLinkUrl"`
}

// BulkResult summarizes a bulk-create call.
type BulkResult struct {
	AcceptedCount     int               `json:"acceptedCount"`
	SkippedDuplicates int               `json:"skippedDuplicates"`
	PerUserErrors     []CandidateError  `json:"perUserErrors"`
	Deliveries        []DeliveryReceipt `json:"deliveries"`
}

// CreateBulk creates up to 50 pending invitations for a household. The
// boundary has already validated caregiver access and consumed a rate-limit
// slot. Per-candidate failures are isolated: one bad candidate never blocks
// the others. All delivery jobs are enqueued after the loop, so creation
// succeeds regardless of downstream delivery outcome.
func (e *InvitationEngine) CreateBulk(ctx context.Context, householdID, inviterUserID string, candidates []InvitationCandidate) (BulkResult, error) {
	if len(candidates) == 0 {
		return BulkResult{}, xerrors.Validation("At least one invitee is required.")
	}
	if len(candidates) > maxBulkCandidates {
		return BulkResult{}, xerrors.Validation(fmt.Sprintf("At most %d invitees per request.", maxBulkCandidates))
	}

	now := e.now()
	result := BulkResult{
		PerUserErrors: []CandidateError{},
		Deliveries:    []DeliveryReceipt{},
	}
	var jobs []mailer.Job

	for _, candidate := range candidates {
		email := domain.NormalizeEmail(candidate.Email)
		if !domain.ValidEmail(email) {
			result.PerUserErrors = append(result.PerUserErrors, CandidateError{
				Email:  candidate.Email,
				Reason: "Invalid email address.",
			})
			continue
		}

		role, err := domain.ParseRole(candidate.Role)
		if err != nil {
			result.PerUserErrors = append(result.PerUserErrors, CandidateError{
				Email:  email,
				Reason: err.Error(),
			})
			continue
		}

		existing, err := e.invitations.FindPendingInvitation(ctx, householdID, email)
		switch {
		case err == nil && !existing.Expired(now):
			// Already invited; surfaced instead of silently doubled, and
			// not re-delivered unless the caller explicitly resends.
			result.SkippedDuplicates++
			continue
		case err == nil:
			// The pending record's token has lapsed; refresh it in place
			// rather than violating the one-pending-per-email invariant.
			_, links, err := e.reissue(ctx, existing.ID, now)
			if err != nil {
				result.PerUserErrors = append(result.PerUserErrors, CandidateError{Email: email, Reason: err.Error()})
				continue
			}
			result.AcceptedCount++
			result.Deliveries = append(result.Deliveries, DeliveryReceipt{
				InvitationID:  existing.ID,
				InviteeEmail:  email,
				AcceptLinkURL: links.AcceptLinkURL,
			})
			jobs = append(jobs, mailer.Job{
				InvitationID:     existing.ID,
				InviteeEmail:     email,
				InviteeFirstName: existing.InviteeFirstName,
				AssignedRole:     existing.AssignedRole,
				AcceptLinkURL:    links.AcceptLinkURL,
				DeepLinkURL:      links.DeepLinkURL,
				FallbackURL:      links.FallbackURL,
			})
			continue
		case !xerrors.IsKind(err, xerrors.KindNotFound):
			result.PerUserErrors = append(result.PerUserErrors, CandidateError{Email: email, Reason: "Could not create invitation."})
			e.log.Error("pending invitation lookup failed", zap.String("householdId", householdID), zap.Error(err))
			continue
		}

		token, err := e.newToken()
		if err != nil {
			result.PerUserErrors = append(result.PerUserErrors, CandidateError{Email: email, Reason: "Could not create invitation."})
			e.log.Error("token generation failed", zap.Error(err))
			continue
		}

		inv := domain.Invitation{
			ID:               e.newID(),
			HouseholdID:      householdID,
			InviterUserID:    inviterUserID,
			InviteeEmail:     email,
			InviteeFirstName: candidate.FirstName,
			InviteeLastName:  candidate.LastName,
			AssignedRole:     role,
			Status:           domain.InvitationPending,
			Token:            token,
			TokenExpiresAt:   now.Add(domain.InvitationTTL),
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := e.invitations.CreateInvitation(ctx, inv); err != nil {
			result.PerUserErrors = append(result.PerUserErrors, CandidateError{Email: email, Reason: "Could not create invitation."})
			e.log.Error("invitation insert failed", zap.String("householdId", householdID), zap.Error(err))
			continue
		}

		links := e.links.Build(token)
		result.AcceptedCount++
		result.Deliveries = append(result.Deliveries, DeliveryReceipt{
			InvitationID:  inv.ID,
			InviteeEmail:  email,
			AcceptLinkURL: links.AcceptLinkURL,
		})
		jobs = append(jobs, mailer.Job{
			InvitationID:     inv.ID,
			InviteeEmail:     email,
			InviteeFirstName: candidate.FirstName,
			AssignedRole:     role,
			AcceptLinkURL:    links.AcceptLinkURL,
			DeepLinkURL:      links.DeepLinkURL,
			FallbackURL:      links.FallbackURL,
		})
	}

	e.queue.EnqueueBulk(jobs)

	e.logAudit(ctx, domain.AuditEvent{
		HouseholdID: householdID,
		ActorUserID: inviterUserID,
		Action:      domain.AuditInvitationsCreated,
		Detail:      fmt.Sprintf("batch=%s created=%d skipped=%d", uuid.NewString(), result.AcceptedCount, result.SkippedDuplicates),
	})

	return result, nil
}

// reissue swaps the token and expiry of a still-pending invitation and
// returns the regenerated links.
func (e *InvitationEngine) reissue(ctx context.Context, invitationID string, now time.Time) (string, mailer.InvitationLinks, error) {
	token, err := e.newToken()
	if err != nil {
		return "", mailer.InvitationLinks{}, fmt.Errorf("generate token: %w", err)
	}
	if err := e.invitations.ReissueToken(ctx, invitationID, token, now.Add(domain.InvitationTTL), now); err != nil {
		return "", mailer.InvitationLinks{}, err
	}
	return token, e.links.Build(token), nil
}

func (e *InvitationEngine) logAudit(ctx context.Context, event domain.AuditEvent) {
	event.ID = e.newID()
	event.CreatedAt = e.now()
	if err := e.audit.LogAuditEvent(ctx, event); err != nil {
		e.log.Warn("audit append failed", zap.String("action", event.Action), zap.Error(err))
	}
}

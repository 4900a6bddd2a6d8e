package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/id"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

// HouseholdUsecase covers household creation, overview and membership
// management. The last-caregiver rules live here: a household must always
// retain at least one active caregiver while it has members.
type HouseholdUsecase struct {
	households  HouseholdStore
	members     MemberStore
	invitations InvitationStore
	medications MedicationStore
	audit       AuditStore
	access      *AccessValidator
	log         *zap.Logger

	now   func() time.Time
	newID func() string
}

type HouseholdUsecaseDeps struct {
	Households  HouseholdStore
	Members     MemberStore
	Invitations InvitationStore
	Medications MedicationStore
	Audit       AuditStore
	Log         *zap.Logger
}

func NewHouseholdUsecase(deps HouseholdUsecaseDeps) *HouseholdUsecase {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &HouseholdUsecase{
		households:  deps.Households,
		members:     deps.Members,
		invitations: deps.Invitations,
		medications: deps.Medications,
		audit:       deps.Audit,
		access:      NewAccessValidator(deps.Members),
		log:         log,
		now:         time.Now,
		newID:       id.New,
	}
}

// WithClock overrides the time source.
func (uc *HouseholdUsecase) WithClock(now func() time.Time) *HouseholdUsecase {
	uc.now = now
	return uc
}

// CreateHousehold creates a household and enrolls the creator as its first
// active caregiver.
func (uc *HouseholdUsecase) CreateHousehold(ctx context.Context, requester domain.Requester, name string) (domain.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Household{}, xerrors.Validation("Household name is required.")
	}

	now := uc.now()
	household := domain.Household{
		ID:              uc.newID(),
		Name:            name,
		CreatedByUserID: requester.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.households.CreateHousehold(ctx, household); err != nil {
		return domain.Household{}, err
	}

	member := domain.Member{
		ID:          uc.newID(),
		HouseholdID: household.ID,
		UserID:      requester.UserID,
		Email:       domain.NormalizeEmail(requester.Email),
		FirstName:   requester.FirstName,
		LastName:    requester.LastName,
		Role:        domain.RoleCaregiver,
		Status:      domain.MemberActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.members.CreateMember(ctx, member); err != nil {
		return domain.Household{}, err
	}

	return household, nil
}

// GetOverview returns the household dashboard projection. Member-only.
func (uc *HouseholdUsecase) GetOverview(ctx context.Context, householdID, requesterUserID string) (domain.HouseholdOverview, error) {
	if _, err := uc.access.EnsureMember(ctx, requesterUserID, householdID); err != nil {
		return domain.HouseholdOverview{}, err
	}

	household, err := uc.households.FindHouseholdByID(ctx, householdID)
	if err != nil {
		return domain.HouseholdOverview{}, err
	}

	members, err := uc.members.ListMembers(ctx, householdID)
	if err != nil {
		return domain.HouseholdOverview{}, err
	}

	invitations, err := uc.invitations.ListHouseholdInvitations(ctx, householdID)
	if err != nil {
		return domain.HouseholdOverview{}, err
	}
	now := uc.now()
	pendingCount := 0
	for _, inv := range invitations {
		if inv.Status == domain.InvitationPending && !inv.Expired(now) {
			pendingCount++
		}
	}

	medications, err := uc.medications.ListMedications(ctx, householdID)
	if err != nil {
		return domain.HouseholdOverview{}, err
	}

	return domain.HouseholdOverview{
		Household:              household,
		MemberCount:            len(members),
		PendingInvitationCount: pendingCount,
		MedicationCount:        len(medications),
	}, nil
}

// UserHousehold is one entry of a user's household list.
type UserHousehold struct {
	HouseholdID   string               `json:"householdId"`
	HouseholdName string               `json:"householdName"`
	Role          domain.HouseholdRole `json:"role"`
	JoinedAt      time.Time            `json:"joinedAt"`
}

// ListUserHouseholds returns the requester's active memberships.
func (uc *HouseholdUsecase) ListUserHouseholds(ctx context.Context, userID string) ([]UserHousehold, error) {
	memberships, err := uc.members.ListUserMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := []UserHousehold{}
	for _, m := range memberships {
		entry := UserHousehold{
			HouseholdID: m.HouseholdID,
			Role:        m.Role,
			JoinedAt:    m.CreatedAt,
		}
		if household, err := uc.households.FindHouseholdByID(ctx, m.HouseholdID); err == nil {
			entry.HouseholdName = household.Name
		}
		out = append(out, entry)
	}
	return out, nil
}

// ListMembers returns the household's active members. Member-only.
func (uc *HouseholdUsecase) ListMembers(ctx context.Context, householdID, requesterUserID string) ([]domain.Member, error) {
	if _, err := uc.access.EnsureMember(ctx, requesterUserID, householdID); err != nil {
		return nil, err
	}
	return uc.members.ListMembers(ctx, householdID)
}

func (uc *HouseholdUsecase) logAudit(ctx context.Context, event domain.AuditEvent) {
	event.ID = uc.newID()
	event.CreatedAt = uc.now()
	if err := uc.audit.LogAuditEvent(ctx, event); err != nil {
		uc.log.Warn("audit append failed", zap.String("action", event.Action), zap.Error(err))
	}
}

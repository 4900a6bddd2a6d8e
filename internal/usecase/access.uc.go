package usecase

import (
	"context"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

// AccessValidator answers membership questions against the member store.
// Pure read-through checks; no caching, no side effects.
type AccessValidator struct {
	members MemberStore
}

func NewAccessValidator(members MemberStore) *AccessValidator {
	return &AccessValidator{members: members}
}

// EnsureMember returns the active membership of the user in the household,
// or Forbidden.
func (v *AccessValidator) EnsureMember(ctx context.Context, userID, householdID string) (domain.Member, error) {
	member, err := v.members.FindActiveMember(ctx, userID, householdID)
	if err != nil {
		if xerrors.IsKind(err, xerrors.KindNotFound) {
			return domain.Member{}, xerrors.Forbidden("Access denied to this household.")
		}
		return domain.Member{}, err
	}
	return member, nil
}

// EnsureCaregiver returns the membership if the user is an active caregiver.
func (v *AccessValidator) EnsureCaregiver(ctx context.Context, userID, householdID string) (domain.Member, error) {
	member, err := v.EnsureMember(ctx, userID, householdID)
	if err != nil {
		return domain.Member{}, err
	}
	if member.Role != domain.RoleCaregiver {
		return domain.Member{}, xerrors.Forbidden("Only caregivers can perform this action.")
	}
	return member, nil
}

// EnsureRole returns the membership if the user holds one of the allowed
// roles in the household.
func (v *AccessValidator) EnsureRole(ctx context.Context, userID, householdID string, allowed ...domain.HouseholdRole) (domain.Member, error) {
	member, err := v.EnsureMember(ctx, userID, householdID)
	if err != nil {
		return domain.Member{}, err
	}
	for _, role := range allowed {
		if member.Role == role {
			return member, nil
		}
	}
	return domain.Member{}, xerrors.Forbidden("Insufficient household role.")
}

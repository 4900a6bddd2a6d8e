package usecase

import (
	"context"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

// UpdateMemberRole changes a member's role. Caregiver-only. Demoting the
// household's last caregiver is rejected as a business-rule violation.
func (uc *HouseholdUsecase) UpdateMemberRole(ctx context.Context, householdID, memberID, requesterUserID string, role domain.HouseholdRole) error {
	if _, err := uc.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return err
	}

	target, err := uc.members.FindMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	if target.HouseholdID != householdID || !target.IsActive() {
		return xerrors.NotFound("Member not found in this household.")
	}
	if target.Role == role {
		return nil
	}

	if target.Role == domain.RoleCaregiver && role != domain.RoleCaregiver {
		caregivers, err := uc.members.CountActiveCaregivers(ctx, householdID)
		if err != nil {
			return err
		}
		if caregivers <= 1 {
			return xerrors.BusinessRule("The household must have at least one caregiver.")
		}
	}

	if err := uc.members.UpdateMemberRole(ctx, memberID, role, uc.now()); err != nil {
		return err
	}

	uc.logAudit(ctx, domain.AuditEvent{
		HouseholdID: householdID,
		ActorUserID: requesterUserID,
		Action:      domain.AuditMemberRoleChanged,
		EntityID:    memberID,
		Detail:      string(role),
	})
	return nil
}

// RemoveMember removes another member from the household. Caregiver-only.
func (uc *HouseholdUsecase) RemoveMember(ctx context.Context, householdID, memberID, requesterUserID string) error {
	if _, err := uc.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return err
	}

	target, err := uc.members.FindMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	if target.HouseholdID != householdID || !target.IsActive() {
		return xerrors.NotFound("Member not found in this household.")
	}
	if target.UserID == requesterUserID {
		return xerrors.Conflict("Cannot remove yourself using this endpoint. Use leave household instead.")
	}

	members, err := uc.members.ListMembers(ctx, householdID)
	if err != nil {
		return err
	}
	if len(members) <= 1 {
		return xerrors.BusinessRule("Cannot remove the last member of the household.")
	}

	if target.Role == domain.RoleCaregiver {
		caregivers, err := uc.members.CountActiveCaregivers(ctx, householdID)
		if err != nil {
			return err
		}
		if caregivers <= 1 {
			return xerrors.BusinessRule("The household must have at least one caregiver.")
		}
	}

	if err := uc.members.SetMemberStatus(ctx, memberID, domain.MemberRemoved, uc.now()); err != nil {
		return err
	}

	uc.logAudit(ctx, domain.AuditEvent{
		HouseholdID: householdID,
		ActorUserID: requesterUserID,
		Action:      domain.AuditMemberRemoved,
		EntityID:    memberID,
	})
	return nil
}

// LeaveHousehold lets the requester leave. The last caregiver cannot leave
// while other members remain.
func (uc *HouseholdUsecase) LeaveHousehold(ctx context.Context, householdID, requesterUserID string) error {
	member, err := uc.access.EnsureMember(ctx, requesterUserID, householdID)
	if err != nil {
		return err
	}

	if member.Role == domain.RoleCaregiver {
		members, err := uc.members.ListMembers(ctx, householdID)
		if err != nil {
			return err
		}
		caregivers, err := uc.members.CountActiveCaregivers(ctx, householdID)
		if err != nil {
			return err
		}
		if caregivers <= 1 && len(members) > 1 {
			return xerrors.BusinessRule("Cannot leave household. You are the last caregiver.")
		}
	}

	if err := uc.members.SetMemberStatus(ctx, member.ID, domain.MemberLeft, uc.now()); err != nil {
		return err
	}

	uc.logAudit(ctx, domain.AuditEvent{
		HouseholdID: householdID,
		ActorUserID: requesterUserID,
		Action:      domain.AuditMemberLeft,
		EntityID:    member.ID,
	})
	return nil
}

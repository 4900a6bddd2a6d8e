package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/internal/repository"
	"github.com/bencohensolal/seniorhub/internal/usecase"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

type householdFixture struct {
	uc    *usecase.HouseholdUsecase
	store *repository.MemoryStore
}

func newHouseholdFixture(t *testing.T) *householdFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	uc := usecase.NewHouseholdUsecase(usecase.HouseholdUsecaseDeps{
		Households:  store,
		Members:     store,
		Invitations: store,
		Medications: store,
		Audit:       store,
	})
	return &householdFixture{uc: uc, store: store}
}

func (f *householdFixture) seedMember(t *testing.T, memberID, householdID, userID string, role domain.HouseholdRole) {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if err := f.store.CreateMember(context.Background(), domain.Member{
		ID:          memberID,
		HouseholdID: householdID,
		UserID:      userID,
		Email:       userID + "@test.local",
		Role:        role,
		Status:      domain.MemberActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("seed member %s: %v", memberID, err)
	}
}

func TestCreateHouseholdMakesCreatorCaregiver(t *testing.T) {
	f := newHouseholdFixture(t)
	requester := domain.Requester{UserID: "user-grace", Email: "grace@test.local", FirstName: "Grace"}

	household, err := f.uc.CreateHousehold(context.Background(), requester, "Miller Family")
	if err != nil {
		t.Fatalf("CreateHousehold: %v", err)
	}
	if household.Name != "Miller Family" || household.CreatedByUserID != "user-grace" {
		t.Fatalf("household = %+v", household)
	}

	member, err := f.store.FindActiveMember(context.Background(), "user-grace", household.ID)
	if err != nil {
		t.Fatalf("creator membership missing: %v", err)
	}
	if member.Role != domain.RoleCaregiver {
		t.Fatalf("creator role = %q, want caregiver", member.Role)
	}
}

func TestCreateHouseholdRejectsBlankName(t *testing.T) {
	f := newHouseholdFixture(t)
	_, err := f.uc.CreateHousehold(context.Background(), domain.Requester{UserID: "u"}, "   ")
	if !xerrors.IsKind(err, xerrors.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestUpdateMemberRoleProtectsLastCaregiver(t *testing.T) {
	f := newHouseholdFixture(t)
	f.seedMember(t, "m-grace", "hh-1", "user-grace", domain.RoleCaregiver)
	f.seedMember(t, "m-ann", "hh-1", "user-ann", domain.RoleSenior)

	err := f.uc.UpdateMemberRole(context.Background(), "hh-1", "m-grace", "user-grace", domain.RoleSenior)
	if !xerrors.IsKind(err, xerrors.KindBusinessRule) {
		t.Fatalf("last caregiver demotion = %v, want business rule", err)
	}

	// With a second caregiver the demotion goes through.
	f.seedMember(t, "m-henry", "hh-1", "user-henry", domain.RoleCaregiver)
	if err := f.uc.UpdateMemberRole(context.Background(), "hh-1", "m-grace", "user-grace", domain.RoleSenior); err != nil {
		t.Fatalf("demotion with backup caregiver: %v", err)
	}
	member, _ := f.store.FindMemberByID(context.Background(), "m-grace")
	if member.Role != domain.RoleSenior {
		t.Fatalf("role = %q, want senior", member.Role)
	}
}

func TestUpdateMemberRoleRequiresCaregiver(t *testing.T) {
	f := newHouseholdFixture(t)
	f.seedMember(t, "m-grace", "hh-1", "user-grace", domain.RoleCaregiver)
	f.seedMember(t, "m-ann", "hh-1", "user-ann", domain.RoleSenior)

	err := f.uc.UpdateMemberRole(context.Background(), "hh-1", "m-grace", "user-ann", domain.RoleSenior)
	if !xerrors.IsKind(err, xerrors.KindForbidden) {
		t.Fatalf("senior-initiated change = %v, want forbidden", err)
	}
}

func TestRemoveMemberRejectsSelf(t *testing.T) {
	f := newHouseholdFixture(t)
	f.seedMember(t, "m-grace", "hh-1", "user-grace", domain.RoleCaregiver)
	f.seedMember(t, "m-ann", "hh-1", "user-ann", domain.RoleSenior)

	err := f.uc.RemoveMember(context.Background(), "hh-1", "m-grace", "user-grace")
	if !xerrors.IsKind(err, xerrors.KindConflict) {
		t.Fatalf("self removal = %v, want conflict", err)
	}
}

func TestRemoveMemberProtectsLastCaregiver(t *testing.T) {
	f := newHouseholdFixture(t)
	f.seedMember(t, "m-grace", "hh-1", "user-grace", domain.RoleCaregiver)
	f.seedMember(t, "m-henry", "hh-1", "user-henry", domain.RoleCaregiver)
	f.seedMember(t, "m-ann", "hh-1", "user-ann", domain.RoleSenior)

	// Removing one of two caregivers is fine.
	if err := f.uc.RemoveMember(context.Background(), "hh-1", "m-henry", "user-grace"); err != nil {
		t.Fatalf("remove backup caregiver: %v", err)
	}

	// The requester is now the only caregiver; removing the senior is still
	// allowed, but no path may remove the last caregiver.
	f.seedMember(t, "m-iris", "hh-1", "user-iris", domain.RoleCaregiver)
	err := f.uc.RemoveMember(context.Background(), "hh-1", "m-grace", "user-iris")
	if err != nil {
		t.Fatalf("remove caregiver with backup: %v", err)
	}
	err = f.uc.RemoveMember(context.Background(), "hh-1", "m-ann", "user-iris")
	if err != nil {
		t.Fatalf("remove senior: %v", err)
	}

	member, _ := f.store.FindMemberByID(context.Background(), "m-henry")
	if member.Status != domain.MemberRemoved {
		t.Fatalf("removed member status = %q", member.Status)
	}
}

func TestLeaveHouseholdBlocksLastCaregiverWithMembers(t *testing.T) {
	f := newHouseholdFixture(t)
	f.seedMember(t, "m-grace", "hh-1", "user-grace", domain.RoleCaregiver)
	f.seedMember(t, "m-ann", "hh-1", "user-ann", domain.RoleSenior)

	err := f.uc.LeaveHousehold(context.Background(), "hh-1", "user-grace")
	if !xerrors.IsKind(err, xerrors.KindBusinessRule) {
		t.Fatalf("last caregiver leave = %v, want business rule", err)
	}

	// The senior can leave freely.
	if err := f.uc.LeaveHousehold(context.Background(), "hh-1", "user-ann"); err != nil {
		t.Fatalf("senior leave: %v", err)
	}

	// Now alone, the caregiver can leave too.
	if err := f.uc.LeaveHousehold(context.Background(), "hh-1", "user-grace"); err != nil {
		t.Fatalf("sole member leave: %v", err)
	}
	member, _ := f.store.FindMemberByID(context.Background(), "m-grace")
	if member.Status != domain.MemberLeft {
		t.Fatalf("status = %q, want left", member.Status)
	}
}

func TestGetOverviewCountsPendingNonExpired(t *testing.T) {
	f := newHouseholdFixture(t)
	ctx := context.Background()

	requester := domain.Requester{UserID: "user-grace", Email: "grace@test.local"}
	household, err := f.uc.CreateHousehold(ctx, requester, "Miller Family")
	if err != nil {
		t.Fatalf("CreateHousehold: %v", err)
	}

	now := time.Now()
	live := domain.Invitation{
		ID: "inv-live", HouseholdID: household.ID, InviterUserID: "user-grace",
		InviteeEmail: "ann@test.local", AssignedRole: domain.RoleSenior,
		Status: domain.InvitationPending, Token: "tok-live",
		TokenExpiresAt: now.Add(domain.InvitationTTL), CreatedAt: now, UpdatedAt: now,
	}
	stale := domain.Invitation{
		ID: "inv-stale", HouseholdID: household.ID, InviterUserID: "user-grace",
		InviteeEmail: "bob@test.local", AssignedRole: domain.RoleSenior,
		Status: domain.InvitationPending, Token: "tok-stale",
		TokenExpiresAt: now.Add(-time.Hour), CreatedAt: now, UpdatedAt: now,
	}
	for _, inv := range []domain.Invitation{live, stale} {
		if err := f.store.CreateInvitation(ctx, inv); err != nil {
			t.Fatalf("seed invitation: %v", err)
		}
	}

	overview, err := f.uc.GetOverview(ctx, household.ID, "user-grace")
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if overview.MemberCount != 1 {
		t.Fatalf("MemberCount = %d, want 1", overview.MemberCount)
	}
	if overview.PendingInvitationCount != 1 {
		t.Fatalf("PendingInvitationCount = %d, want 1 (expired filtered)", overview.PendingInvitationCount)
	}
}

func TestGetOverviewRequiresMembership(t *testing.T) {
	f := newHouseholdFixture(t)
	requester := domain.Requester{UserID: "user-grace", Email: "grace@test.local"}
	household, err := f.uc.CreateHousehold(context.Background(), requester, "Miller Family")
	if err != nil {
		t.Fatalf("CreateHousehold: %v", err)
	}

	_, err = f.uc.GetOverview(context.Background(), household.ID, "user-stranger")
	if !xerrors.IsKind(err, xerrors.KindForbidden) {
		t.Fatalf("outsider overview = %v, want forbidden", err)
	}
}

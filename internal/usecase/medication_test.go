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

func newMedicationFixture(t *testing.T) (*usecase.MedicationUsecase, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	seed := func(memberID, userID string, role domain.HouseholdRole) {
		if err := store.CreateMember(context.Background(), domain.Member{
			ID: memberID, HouseholdID: "hh-1", UserID: userID,
			Role: role, Status: domain.MemberActive, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}
	seed("m-grace", "user-grace", domain.RoleCaregiver)
	seed("m-ann", "user-ann", domain.RoleSenior)

	return usecase.NewMedicationUsecase(store, store), store
}

func TestMedicationMutationsAreCaregiverOnly(t *testing.T) {
	uc, _ := newMedicationFixture(t)
	input := usecase.MedicationInput{Name: "Metformin", Dosage: "500mg"}

	if _, err := uc.CreateMedication(context.Background(), "hh-1", "user-ann", input); !xerrors.IsKind(err, xerrors.KindForbidden) {
		t.Fatalf("senior create = %v, want forbidden", err)
	}

	med, err := uc.CreateMedication(context.Background(), "hh-1", "user-grace", input)
	if err != nil {
		t.Fatalf("caregiver create: %v", err)
	}

	// Seniors can read.
	meds, err := uc.ListMedications(context.Background(), "hh-1", "user-ann")
	if err != nil {
		t.Fatalf("senior list: %v", err)
	}
	if len(meds) != 1 || meds[0].ID != med.ID {
		t.Fatalf("meds = %+v", meds)
	}

	if err := uc.DeleteMedication(context.Background(), "hh-1", med.ID, "user-ann"); !xerrors.IsKind(err, xerrors.KindForbidden) {
		t.Fatalf("senior delete = %v, want forbidden", err)
	}
}

func TestMedicationScopedToHousehold(t *testing.T) {
	uc, store := newMedicationFixture(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.CreateMedication(context.Background(), domain.Medication{
		ID: "med-other", HouseholdID: "hh-2", Name: "Lisinopril", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed medication: %v", err)
	}

	_, err := uc.UpdateMedication(context.Background(), "hh-1", "med-other", "user-grace", usecase.MedicationInput{Name: "X"})
	if !xerrors.IsKind(err, xerrors.KindNotFound) {
		t.Fatalf("cross-household update = %v, want not found", err)
	}
}

func TestReminderValidatesTimeOfDay(t *testing.T) {
	uc, _ := newMedicationFixture(t)

	med, err := uc.CreateMedication(context.Background(), "hh-1", "user-grace", usecase.MedicationInput{Name: "Metformin"})
	if err != nil {
		t.Fatalf("create medication: %v", err)
	}

	for _, bad := range []string{"", "8:00", "24:00", "12:60", "ab:cd", "12-30"} {
		if _, err := uc.CreateReminder(context.Background(), "hh-1", med.ID, "user-grace", usecase.ReminderInput{TimeOfDay: bad}); !xerrors.IsKind(err, xerrors.KindValidation) {
			t.Fatalf("CreateReminder(%q) = %v, want validation", bad, err)
		}
	}

	reminder, err := uc.CreateReminder(context.Background(), "hh-1", med.ID, "user-grace", usecase.ReminderInput{TimeOfDay: "08:30"})
	if err != nil {
		t.Fatalf("CreateReminder: %v", err)
	}
	if !reminder.Enabled {
		t.Fatal("reminder should default to enabled")
	}

	disabled := false
	updated, err := uc.UpdateReminder(context.Background(), "hh-1", reminder.ID, "user-grace", usecase.ReminderInput{Enabled: &disabled})
	if err != nil {
		t.Fatalf("UpdateReminder: %v", err)
	}
	if updated.Enabled || updated.TimeOfDay != "08:30" {
		t.Fatalf("updated = %+v", updated)
	}
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/id"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

// MedicationUsecase covers household-scoped medication and reminder CRUD.
// Reads are member-level; mutations are caregiver-only.
type MedicationUsecase struct {
	medications MedicationStore
	access      *AccessValidator

	now   func() time.Time
	newID func() string
}

func NewMedicationUsecase(medications MedicationStore, members MemberStore) *MedicationUsecase {
	return &MedicationUsecase{
		medications: medications,
		access:      NewAccessValidator(members),
		now:         time.Now,
		newID:       id.New,
	}
}

func (uc *MedicationUsecase) ListMedications(ctx context.Context, householdID, requesterUserID string) ([]domain.Medication, error) {
	if _, err := uc.access.EnsureMember(ctx, requesterUserID, householdID); err != nil {
		return nil, err
	}
	return uc.medications.ListMedications(ctx, householdID)
}

type MedicationInput struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
}

func (uc *MedicationUsecase) CreateMedication(ctx context.Context, householdID, requesterUserID string, input MedicationInput) (domain.Medication, error) {
	if _, err := uc.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return domain.Medication{}, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return domain.Medication{}, xerrors.Validation("Medication name is required.")
	}

	now := uc.now()
	med := domain.Medication{
		ID:              uc.newID(),
		HouseholdID:     householdID,
		Name:            strings.TrimSpace(input.Name),
		Dosage:          input.Dosage,
		Instructions:    input.Instructions,
		CreatedByUserID: requesterUserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.medications.CreateMedication(ctx, med); err != nil {
		return domain.Medication{}, err
	}
	return med, nil
}

func (uc *MedicationUsecase) UpdateMedication(ctx context.Context, householdID, medicationID, requesterUserID string, input MedicationInput) (domain.Medication, error) {
	if _, err := uc.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return domain.Medication{}, err
	}

	med, err := uc.findHouseholdMedication(ctx, householdID, medicationID)
	if err != nil {
		return domain.Medication{}, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return domain.Medication{}, xerrors.Validation("Medication name is required.")
	}

	med.Name = strings.TrimSpace(input.Name)
	med.Dosage = input.Dosage
	med.Instructions = input.Instructions
	med.UpdatedAt = uc.now()
	if err := uc.medications.UpdateMedication(ctx, med); err != nil {
		return domain.Medication{}, err
	}
	return med, nil
}

func (uc *MedicationUsecase) DeleteMedication(ctx context.Context, householdID, medicationID, requesterUserID string) error {
	if _, err := uc.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return err
	}
	if _, err := uc.findHouseholdMedication(ctx, householdID, medicationID); err != nil {
		return err
	}
	return uc.medications.DeleteMedication(ctx, medicationID)
}

func (uc *MedicationUsecase) ListReminders(ctx context.Context, householdID, medicationID, requesterUserID string) ([]domain.MedicationReminder, error) {
	if _, err := uc.access.EnsureMember(ctx, requesterUserID, householdID); err != nil {
		return nil, err
	}
	if _, err := uc.findHouseholdMedication(ctx, householdID, medicationID); err != nil {
		return nil, err
	}
	return uc.medications.ListReminders(ctx, medicationID)
}

type ReminderInput struct {
	TimeOfDay string `json:"timeOfDay"`
	Enabled   *bool  `json:"enabled"`
}

func (uc *MedicationUsecase) CreateReminder(ctx context.Context, householdID, medicationID, requesterUserID string, input ReminderInput) (domain.MedicationReminder, error) {
	if _, err := uc.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return domain.MedicationReminder{}, err
	}
	if _, err := uc.findHouseholdMedication(ctx, householdID, medicationID); err != nil {
		return domain.MedicationReminder{}, err
	}
	if !validTimeOfDay(input.TimeOfDay) {
		return domain.MedicationReminder{}, xerrors.Validation("timeOfDay must be HH:MM.")
	}

	now := uc.now()
	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}
	reminder := domain.MedicationReminder{
		ID:           uc.newID(),
		MedicationID: medicationID,
		HouseholdID:  householdID,
		TimeOfDay:    input.TimeOfDay,
		Enabled:      enabled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.medications.CreateReminder(ctx, reminder); err != nil {
		return domain.MedicationReminder{}, err
	}
	return reminder, nil
}

func (uc *MedicationUsecase) UpdateReminder(ctx context.Context, householdID, reminderID, requesterUserID string, input ReminderInput) (domain.MedicationReminder, error) {
	if _, err := uc.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return domain.MedicationReminder{}, err
	}

	reminder, err := uc.medications.FindReminderByID(ctx, reminderID)
	if err != nil {
		return domain.MedicationReminder{}, err
	}
	if reminder.HouseholdID != householdID {
		return domain.MedicationReminder{}, xerrors.NotFound("Reminder not found.")
	}

	if input.TimeOfDay != "" {
		if !validTimeOfDay(input.TimeOfDay) {
			return domain.MedicationReminder{}, xerrors.Validation("timeOfDay must be HH:MM.")
		}
		reminder.TimeOfDay = input.TimeOfDay
	}
	if input.Enabled != nil {
		reminder.Enabled = *input.Enabled
	}
	reminder.UpdatedAt = uc.now()

	if err := uc.medications.UpdateReminder(ctx, reminder); err != nil {
		return domain.MedicationReminder{}, err
	}
	return reminder, nil
}

func (uc *MedicationUsecase) DeleteReminder(ctx context.Context, householdID, reminderID, requesterUserID string) error {
	if _, err := uc.access.EnsureCaregiver(ctx, requesterUserID, householdID); err != nil {
		return err
	}
	reminder, err := uc.medications.FindReminderByID(ctx, reminderID)
	if err != nil {
		return err
	}
	if reminder.HouseholdID != householdID {
		return xerrors.NotFound("Reminder not found.")
	}
	return uc.medications.DeleteReminder(ctx, reminderID)
}

func (uc *MedicationUsecase) findHouseholdMedication(ctx context.Context, householdID, medicationID string) (domain.Medication, error) {
	med, err := uc.medications.FindMedicationByID(ctx, medicationID)
	if err != nil {
		return domain.Medication{}, err
	}
	if med.HouseholdID != householdID {
		return domain.Medication{}, xerrors.NotFound("Medication not found.")
	}
	return med, nil
}

func validTimeOfDay(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := (int(s[0]-'0') * 10) + int(s[1]-'0')
	mm := (int(s[3]-'0') * 10) + int(s[4]-'0')
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	return hh < 24 && mm < 60
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

const medicationColumns = `
	id, household_id, name, dosage, instructions, created_by_user_id,
	created_at, updated_at
`

func scanMedication(row pgx.Row) (domain.Medication, error) {
	var m domain.Medication
	err := row.Scan(
		&m.ID, &m.HouseholdID, &m.Name, &m.Dosage, &m.Instructions,
		&m.CreatedByUserID, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *Store) CreateMedication(ctx context.Context, m domain.Medication) error {
	query := `
		INSERT INTO medications (` + medicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.HouseholdID, m.Name, m.Dosage, m.Instructions,
		m.CreatedByUserID, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert medication: %w", err)
	}
	return nil
}

func (r *Store) FindMedicationByID(ctx context.Context, id string) (domain.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1 LIMIT 1`

	m, err := scanMedication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Medication{}, xerrors.NotFound("Medication not found.")
		}
		return domain.Medication{}, fmt.Errorf("failed to fetch medication %s: %w", id, err)
	}
	return m, nil
}

func (r *Store) ListMedications(ctx context.Context, householdID string) ([]domain.Medication, error) {
	query := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE household_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications: %w", err)
	}
	defer rows.Close()

	var out []domain.Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Store) UpdateMedication(ctx context.Context, m domain.Medication) error {
	query := `
		UPDATE medications
		SET name = $2, dosage = $3, instructions = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, m.ID, m.Name, m.Dosage, m.Instructions, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.NotFound("Medication not found.")
	}
	return nil
}

func (r *Store) DeleteMedication(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.NotFound("Medication not found.")
	}
	return nil
}

const reminderColumns = `
	id, medication_id, household_id, time_of_day, enabled, created_at, updated_at
`

func scanReminder(row pgx.Row) (domain.MedicationReminder, error) {
	var rem domain.MedicationReminder
	err := row.Scan(
		&rem.ID, &rem.MedicationID, &rem.HouseholdID, &rem.TimeOfDay,
		&rem.Enabled, &rem.CreatedAt, &rem.UpdatedAt,
	)
	return rem, err
}

func (r *Store) CreateReminder(ctx context.Context, rem domain.MedicationReminder) error {
	query := `
		INSERT INTO medication_reminders (` + reminderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		rem.ID, rem.MedicationID, rem.HouseholdID, rem.TimeOfDay,
		rem.Enabled, rem.CreatedAt, rem.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

func (r *Store) FindReminderByID(ctx context.Context, id string) (domain.MedicationReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM medication_reminders WHERE id = $1 LIMIT 1`

	rem, err := scanReminder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MedicationReminder{}, xerrors.NotFound("Reminder not found.")
		}
		return domain.MedicationReminder{}, fmt.Errorf("failed to fetch reminder %s: %w", id, err)
	}
	return rem, nil
}

func (r *Store) ListReminders(ctx context.Context, medicationID string) ([]domain.MedicationReminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM medication_reminders
		WHERE medication_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, medicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var out []domain.MedicationReminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

func (r *Store) UpdateReminder(ctx context.Context, rem domain.MedicationReminder) error {
	query := `
		UPDATE medication_reminders
		SET time_of_day = $2, enabled = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, rem.ID, rem.TimeOfDay, rem.Enabled, rem.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.NotFound("Reminder not found.")
	}
	return nil
}

func (r *Store) DeleteReminder(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM medication_reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.NotFound("Reminder not found.")
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

const memberColumns = `
	id, household_id, user_id, email, first_name, last_name, role, status,
	created_at, updated_at
`

func scanMember(row pgx.Row) (domain.Member, error) {
	var m domain.Member
	err := row.Scan(
		&m.ID, &m.HouseholdID, &m.UserID, &m.Email, &m.FirstName,
		&m.LastName, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *Store) CreateMember(ctx context.Context, m domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.HouseholdID, m.UserID, m.Email, m.FirstName,
		m.LastName, m.Role, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func (r *Store) FindActiveMember(ctx context.Context, userID, householdID string) (domain.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE user_id = $1 AND household_id = $2 AND status = 'active'
		LIMIT 1
	`
	m, err := scanMember(r.db.QueryRow(ctx, query, userID, householdID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, xerrors.NotFound("Member not found.")
		}
		return domain.Member{}, fmt.Errorf("failed to fetch active member: %w", err)
	}
	return m, nil
}

func (r *Store) FindMemberByUser(ctx context.Context, userID, householdID string) (domain.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE user_id = $1 AND household_id = $2
		LIMIT 1
	`
	m, err := scanMember(r.db.QueryRow(ctx, query, userID, householdID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, xerrors.NotFound("Member not found.")
		}
		return domain.Member{}, fmt.Errorf("failed to fetch member by user: %w", err)
	}
	return m, nil
}

func (r *Store) FindMemberByID(ctx context.Context, id string) (domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1 LIMIT 1`

	m, err := scanMember(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, xerrors.NotFound("Member not found.")
		}
		return domain.Member{}, fmt.Errorf("failed to fetch member %s: %w", id, err)
	}
	return m, nil
}

func (r *Store) ListMembers(ctx context.Context, householdID string) ([]domain.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE household_id = $1 AND status = 'active'
		ORDER BY created_at
	`
	return r.queryMembers(ctx, query, householdID)
}

func (r *Store) ListUserMemberships(ctx context.Context, userID string) ([]domain.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at
	`
	return r.queryMembers(ctx, query, userID)
}

func (r *Store) queryMembers(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Store) CountActiveCaregivers(ctx context.Context, householdID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM members
		WHERE household_id = $1 AND status = 'active' AND role = 'caregiver'
	`
	var count int
	if err := r.db.QueryRow(ctx, query, householdID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count caregivers: %w", err)
	}
	return count, nil
}

func (r *Store) UpdateMemberRole(ctx context.Context, memberID string, role domain.HouseholdRole, now time.Time) error {
	query := `
		UPDATE members
		SET role = $2, updated_at = $3
		WHERE id = $1 AND status = 'active'
	`
	result, err := r.db.Exec(ctx, query, memberID, role, now)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.NotFound("Member not found.")
	}
	return nil
}

func (r *Store) SetMemberStatus(ctx context.Context, memberID string, status domain.MemberStatus, now time.Time) error {
	query := `
		UPDATE members
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, memberID, status, now)
	if err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.NotFound("Member not found.")
	}
	return nil
}

func (r *Store) ReactivateMember(ctx context.Context, memberID string, role domain.HouseholdRole, now time.Time) error {
	query := `
		UPDATE members
		SET status = 'active', role = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, memberID, role, now)
	if err != nil {
		return fmt.Errorf("failed to reactivate member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.NotFound("Member not found.")
	}
	return nil
}

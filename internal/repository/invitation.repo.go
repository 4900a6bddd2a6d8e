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

const invitationColumns = `
	id, household_id, inviter_user_id, invitee_email, invitee_first_name,
	invitee_last_name, assigned_role, status, token, token_expires_at,
	created_at, updated_at
`

func scanInvitation(row pgx.Row) (domain.Invitation, error) {
	var inv domain.Invitation
	err := row.Scan(
		&inv.ID, &inv.HouseholdID, &inv.InviterUserID, &inv.InviteeEmail,
		&inv.InviteeFirstName, &inv.InviteeLastName, &inv.AssignedRole,
		&inv.Status, &inv.Token, &inv.TokenExpiresAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	return inv, err
}

func (r *Store) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		inv.ID, inv.HouseholdID, inv.InviterUserID, inv.InviteeEmail,
		inv.InviteeFirstName, inv.InviteeLastName, inv.AssignedRole,
		inv.Status, inv.Token, inv.TokenExpiresAt,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

func (r *Store) FindInvitationByToken(ctx context.Context, token string) (domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1 LIMIT 1`

	inv, err := scanInvitation(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invitation{}, xerrors.NotFound("Invitation not found.")
		}
		return domain.Invitation{}, fmt.Errorf("failed to fetch invitation by token: %w", err)
	}
	return inv, nil
}

func (r *Store) FindInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1 LIMIT 1`

	inv, err := scanInvitation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invitation{}, xerrors.NotFound("Invitation not found.")
		}
		return domain.Invitation{}, fmt.Errorf("failed to fetch invitation %s: %w", id, err)
	}
	return inv, nil
}

func (r *Store) FindPendingInvitation(ctx context.Context, householdID, email string) (domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE household_id = $1 AND invitee_email = $2 AND status = 'pending'
		LIMIT 1
	`

	inv, err := scanInvitation(r.db.QueryRow(ctx, query, householdID, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invitation{}, xerrors.NotFound("Invitation not found.")
		}
		return domain.Invitation{}, fmt.Errorf("failed to fetch pending invitation: %w", err)
	}
	return inv, nil
}

func (r *Store) FindPendingInvitationsByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE invitee_email = $1 AND status = 'pending'
		ORDER BY created_at
	`
	return r.queryInvitations(ctx, query, email)
}

func (r *Store) ListHouseholdInvitations(ctx context.Context, householdID string) ([]domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE household_id = $1
		ORDER BY created_at
	`
	return r.queryInvitations(ctx, query, householdID)
}

func (r *Store) queryInvitations(ctx context.Context, query string, args ...any) ([]domain.Invitation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// TransitionStatus flips a pending invitation to a terminal status. The
// WHERE status = 'pending' guard is the compare-and-swap: of N concurrent
// callers exactly one update matches, the rest resolve to Conflict below.
func (r *Store) TransitionStatus(ctx context.Context, id string, to domain.InvitationStatus, now time.Time) error {
	query := `
		UPDATE invitations
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'
	`
	result, err := r.db.Exec(ctx, query, id, to, now)
	if err != nil {
		return fmt.Errorf("failed to transition invitation %s: %w", id, err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	if _, err := r.FindInvitationByID(ctx, id); err != nil {
		return err
	}
	return xerrors.Conflict("Invitation is not pending.")
}

func (r *Store) ReissueToken(ctx context.Context, id, token string, expiresAt, now time.Time) error {
	query := `
		UPDATE invitations
		SET token = $2, token_expires_at = $3, updated_at = $4
		WHERE id = $1 AND status = 'pending'
	`
	result, err := r.db.Exec(ctx, query, id, token, expiresAt, now)
	if err != nil {
		return fmt.Errorf("failed to reissue invitation token %s: %w", id, err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	if _, err := r.FindInvitationByID(ctx, id); err != nil {
		return err
	}
	return xerrors.Conflict("Invitation is not pending.")
}

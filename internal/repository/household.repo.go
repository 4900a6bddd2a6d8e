package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

func (r *Store) CreateHousehold(ctx context.Context, h domain.Household) error {
	query := `
		INSERT INTO households (id, name, created_by_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, h.ID, h.Name, h.CreatedByUserID, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert household: %w", err)
	}
	return nil
}

func (r *Store) FindHouseholdByID(ctx context.Context, id string) (domain.Household, error) {
	query := `
		SELECT id, name, created_by_user_id, created_at, updated_at
		FROM households
		WHERE id = $1
		LIMIT 1
	`
	var h domain.Household
	err := r.db.QueryRow(ctx, query, id).Scan(&h.ID, &h.Name, &h.CreatedByUserID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Household{}, xerrors.NotFound("Household not found.")
		}
		return domain.Household{}, fmt.Errorf("failed to fetch household %s: %w", id, err)
	}
	return h, nil
}

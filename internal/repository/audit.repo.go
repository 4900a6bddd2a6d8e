package repository

import (
	"context"
	"fmt"

	"github.com/bencohensolal/seniorhub/internal/domain"
)

func (r *Store) LogAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	query := `
		INSERT INTO audit_events (id, household_id, actor_user_id, action, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		event.ID, event.HouseholdID, event.ActorUserID, event.Action,
		event.EntityID, event.Detail, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

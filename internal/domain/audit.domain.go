package domain

import "time"

// AuditEvent records a lifecycle transition for later inspection.
type AuditEvent struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"householdId"`
	ActorUserID string    `json:"actorUserId"`
	Action      string    `json:"action"`
	EntityID    string    `json:"entityId"`
	Detail      string    `json:"detail"`
	CreatedAt   time.Time `json:"createdAt"`
}

const (
	AuditInvitationsCreated  = "invitations.created"
	AuditInvitationAccepted  = "invitation.accepted"
	AuditInvitationCancelled = "invitation.cancelled"
	AuditInvitationResent    = "invitation.resent"
	AuditMemberRemoved       = "member.removed"
	AuditMemberRoleChanged   = "member.role_changed"
	AuditMemberLeft          = "member.left"
)

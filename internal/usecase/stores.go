package usecase

import (
	"context"
	"time"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/internal/mailer"
)

// Store interfaces are defined on the consumer side; they are satisfied by
// the pgx repositories and by the in-memory store. Every mutating method
// that participates in a lifecycle transition must apply an atomic
// compare-and-swap on the row's status, so the single-winner guarantee
// holds even across process instances sharing one database.

type HouseholdStore interface {
	CreateHousehold(ctx context.Context, h domain.Household) error
	FindHouseholdByID(ctx context.Context, id string) (domain.Household, error)
}

type MemberStore interface {
	CreateMember(ctx context.Context, m domain.Member) error
	// FindActiveMember returns NotFound when the user has no active
	// membership in the household.
	FindActiveMember(ctx context.Context, userID, householdID string) (domain.Member, error)
	// FindMemberByUser looks the membership up regardless of status.
	FindMemberByUser(ctx context.Context, userID, householdID string) (domain.Member, error)
	FindMemberByID(ctx context.Context, id string) (domain.Member, error)
	ListMembers(ctx context.Context, householdID string) ([]domain.Member, error)
	ListUserMemberships(ctx context.Context, userID string) ([]domain.Member, error)
	CountActiveCaregivers(ctx context.Context, householdID string) (int, error)
	UpdateMemberRole(ctx context.Context, memberID string, role domain.HouseholdRole, now time.Time) error
	SetMemberStatus(ctx context.Context, memberID string, status domain.MemberStatus, now time.Time) error
	ReactivateMember(ctx context.Context, memberID string, role domain.HouseholdRole, now time.Time) error
}

type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error
	FindInvitationByToken(ctx context.Context, token string) (domain.Invitation, error)
	FindInvitationByID(ctx context.Context, id string) (domain.Invitation, error)
	// FindPendingInvitation returns the pending record for the household and
	// normalized email, or NotFound.
	FindPendingInvitation(ctx context.Context, householdID, email string) (domain.Invitation, error)
	FindPendingInvitationsByEmail(ctx context.Context, email string) ([]domain.Invitation, error)
	ListHouseholdInvitations(ctx context.Context, householdID string) ([]domain.Invitation, error)
	// TransitionStatus is the pending→terminal compare-and-swap. It fails
	// with Conflict when the record is no longer pending and NotFound when
	// it does not exist.
	TransitionStatus(ctx context.Context, id string, to domain.InvitationStatus, now time.Time) error
	// ReissueToken swaps the token and expiry of a still-pending
	// invitation; the old token becomes permanently invalid.
	ReissueToken(ctx context.Context, id, token string, expiresAt, now time.Time) error
}

type MedicationStore interface {
	CreateMedication(ctx context.Context, m domain.Medication) error
	FindMedicationByID(ctx context.Context, id string) (domain.Medication, error)
	ListMedications(ctx context.Context, householdID string) ([]domain.Medication, error)
	UpdateMedication(ctx context.Context, m domain.Medication) error
	DeleteMedication(ctx context.Context, id string) error
	CreateReminder(ctx context.Context, r domain.MedicationReminder) error
	FindReminderByID(ctx context.Context, id string) (domain.MedicationReminder, error)
	ListReminders(ctx context.Context, medicationID string) ([]domain.MedicationReminder, error)
	UpdateReminder(ctx context.Context, r domain.MedicationReminder) error
	DeleteReminder(ctx context.Context, id string) error
}

type AuditStore interface {
	LogAuditEvent(ctx context.Context, event domain.AuditEvent) error
}

// Enqueuer is the lifecycle engine's one-way handle on the delivery queue.
type Enqueuer interface {
	EnqueueBulk(jobs []mailer.Job)
}

package domain

import (
	"time"

	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

// HouseholdRole is the closed set of roles a member can hold.
type HouseholdRole string

const (
	RoleCaregiver HouseholdRole = "caregiver"
	RoleSenior    HouseholdRole = "senior"
)

// ParseRole validates a role string coming from the boundary.
func ParseRole(s string) (HouseholdRole, error) {
	switch HouseholdRole(s) {
	case RoleCaregiver:
		return RoleCaregiver, nil
	case RoleSenior:
		return RoleSenior, nil
	default:
		return "", xerrors.Validation("Invalid role: " + s)
	}
}

// RoleLabel is the human-facing label used in emails.
func RoleLabel(r HouseholdRole) string {
	if r == RoleCaregiver {
		return "Caregiver"
	}
	return "Senior"
}

type MemberStatus string

const (
	MemberActive  MemberStatus = "active"
	MemberRemoved MemberStatus = "removed"
	MemberLeft    MemberStatus = "left"
)

// Member is a user's membership in one household.
type Member struct {
	ID          string        `json:"id"`
	HouseholdID string        `json:"householdId"`
	UserID      string        `json:"userId"`
	Email       string        `json:"email"`
	FirstName   string        `json:"firstName"`
	LastName    string        `json:"lastName"`
	Role        HouseholdRole `json:"role"`
	Status      MemberStatus  `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (m Member) IsActive() bool { return m.Status == MemberActive }

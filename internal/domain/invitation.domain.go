package domain

import (
	"net/mail"
	"strings"
	"time"
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCancelled InvitationStatus = "cancelled"
	// InvitationExpired is derived from TokenExpiresAt at read time; it is
	// never written to storage.
	InvitationExpired InvitationStatus = "expired"
)

// InvitationTTL is the default validity window of an invitation token.
const InvitationTTL = 72 * time.Hour

// Invitation is a time-boxed, single-use grant of a household role. The
// record is retained for audit after any terminal transition.
type Invitation struct {
	ID               string           `json:"id"`
	HouseholdID      string           `json:"householdId"`
	InviterUserID    string           `json:"inviterUserId"`
	InviteeEmail     string           `json:"inviteeEmail"`
	InviteeFirstName string           `json:"inviteeFirstName"`
	InviteeLastName  string           `json:"inviteeLastName"`
	AssignedRole     HouseholdRole    `json:"assignedRole"`
	Status           InvitationStatus `json:"status"`
	Token            string           `json:"-"`
	TokenExpiresAt   time.Time        `json:"tokenExpiresAt"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Expired reports whether the token validity window has passed.
func (i Invitation) Expired(now time.Time) bool {
	return now.After(i.TokenExpiresAt)
}

// EffectiveStatus folds expiry into the stored status for read projections.
func (i Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && i.Expired(now) {
		return InvitationExpired
	}
	return i.Status
}

// NormalizeEmail trims and lower-cases an address for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address is a plausible single recipient.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

// MaskEmail hides the local part of an address for untrusted callers,
// keeping the first and last character when possible.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	local, rest := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + rest
	}
	return local[:1] + "***" + local[len(local)-1:] + rest
}

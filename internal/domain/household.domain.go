package domain

import "time"

// Household groups one or more seniors with their caregivers.
type Household struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	CreatedByUserID string    `json:"createdByUserId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HouseholdOverview is the dashboard projection of a household.
type HouseholdOverview struct {
	Household              Household `json:"household"`
	MemberCount            int       `json:"memberCount"`
	PendingInvitationCount int       `json:"pendingInvitationCount"`
	MedicationCount        int       `json:"medicationCount"`
}

// Requester is the authenticated identity attached to a request.
type Requester struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

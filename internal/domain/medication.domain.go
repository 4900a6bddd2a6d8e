package domain

import "time"

// Medication is a household-scoped medication entry.
type Medication struct {
	ID              string    `json:"id"`
	HouseholdID     string    `json:"householdId"`
	Name            string    `json:"name"`
	Dosage          string    `json:"dosage"`
	Instructions    string    `json:"instructions"`
	CreatedByUserID string    `json:"createdByUserId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MedicationReminder is a daily reminder attached to a medication.
type MedicationReminder struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medicationId"`
	HouseholdID  string    `json:"householdId"`
	TimeOfDay    string    `json:"timeOfDay"` // "HH:MM", household-local
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

package mailer

import "github.com/bencohensolal/seniorhub/internal/domain"

// Job is one invitation email to deliver. The queue owns a job exclusively
// from enqueue until it is sent or dead-lettered.
type Job struct {
	InvitationID     string
	InviteeEmail     string
	InviteeFirstName string
	AssignedRole     domain.HouseholdRole
	AcceptLinkURL    string
	DeepLinkURL      string
	FallbackURL      string

	// Attempts counts failed sends so far; managed by the queue.
	Attempts int
}

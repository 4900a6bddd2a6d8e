package mailer

import (
	"fmt"
	"strings"

	"github.com/bencohensolal/seniorhub/internal/domain"
)

const invitationSubject = "You've been invited to join a household on Senior Hub"

// BuildInvitationEmail renders the subject and plain-text body for one job.
func BuildInvitationEmail(job Job) (subject, body string) {
	name := strings.TrimSpace(job.InviteeFirstName)
	if name == "" {
		name = "there"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\r\n\r\n", name)
	fmt.Fprintf(&sb, "You've been invited to join a household on Senior Hub as a %s.\r\n\r\n", domain.RoleLabel(job.AssignedRole))
	fmt.Fprintf(&sb, "Accept your invitation:\r\n%s\r\n\r\n", job.AcceptLinkURL)
	if job.FallbackURL != "" {
		fmt.Fprintf(&sb, "If the link above doesn't work, open:\r\n%s\r\n\r\n", job.FallbackURL)
	}
	sb.WriteString("This invitation expires in 72 hours.\r\n\r\n— The Senior Hub team\r\n")

	return invitationSubject, sb.String()
}

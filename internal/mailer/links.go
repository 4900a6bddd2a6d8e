package mailer

import (
	"net/url"
	"strings"
)

// InvitationLinks carries the URLs embedded in an invitation email. The
// accept link is the smart redirect used in emails; deep link and fallback
// target the mobile app and web client directly.
type InvitationLinks struct {
	AcceptLinkURL string `json:"acceptLinkUrl"`
	DeepLinkURL   string `json:"deepLinkUrl"`
	FallbackURL   string `json:"fallbackUrl,omitempty"`
}

// LinkBuilder renders invitation links for a deployment's base URLs.
type LinkBuilder struct {
	BackendBaseURL  string
	FallbackBaseURL string
}

func (b LinkBuilder) Build(token string) InvitationLinks {
	escaped := url.QueryEscape(token)

	links := InvitationLinks{
		AcceptLinkURL: strings.TrimRight(b.BackendBaseURL, "/") + "/api/v1/invitations/accept-link?token=" + escaped,
		DeepLinkURL:   "seniorhub://invite?type=household-invite&token=" + escaped,
	}

	if b.FallbackBaseURL != "" {
		sep := "?"
		if strings.Contains(b.FallbackBaseURL, "?") {
			sep = "&"
		}
		links.FallbackURL = b.FallbackBaseURL + sep + "type=household-invite&token=" + escaped
	}

	return links
}

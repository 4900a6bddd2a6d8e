package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridProvider delivers through the SendGrid v3 API.
type SendGridProvider struct {
	APIKey   string
	From     string
	FromName string
}

func (p *SendGridProvider) Send(ctx context.Context, to, subject, body string) error {
	if p.APIKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(p.FromName, p.From),
		subject,
		mail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	client := sendgrid.NewSendClient(p.APIKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}

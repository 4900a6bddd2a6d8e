package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Provider sends one email. Any returned error is treated uniformly as a
// transient failure feeding the queue's retry path.
type Provider interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ConsoleProvider logs instead of sending; the development default.
type ConsoleProvider struct {
	Log *zap.Logger
}

func (p *ConsoleProvider) Send(_ context.Context, to, subject, body string) error {
	p.Log.Info("console email",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("bodyBytes", len(body)),
	)
	return nil
}

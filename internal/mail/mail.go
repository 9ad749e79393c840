// Package mail renders the outgoing emails and delivers them through
// SendGrid, or through the log when no API key is configured.
package mail

import (
	"context"
	"log/slog"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatch sends every message and logs individual failures. It returns the
// number of messages accepted by the mailer.
func Dispatch(ctx context.Context, m Mailer, msgs []Message) int {
	sent := 0
	for _, msg := range msgs {
		if msg.ToEmail == "" {
			continue
		}
		if err := m.Send(ctx, msg); err != nil {
			slog.Error("email send failed", "action", "send_email", "to", msg.ToEmail, "subject", msg.Subject, "error", err)
			continue
		}
		sent++
	}
	return sent
}

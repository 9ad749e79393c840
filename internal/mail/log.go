package mail

import (
	"context"
	"log/slog"
	"sync"
)

// LogMailer writes messages to the structured log instead of sending them.
// Sent keeps a copy for inspection in tests.
type LogMailer struct {
	mu   sync.Mutex
	Sent []Message
}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (l *LogMailer) Send(_ context.Context, msg Message) error {
	slog.Info("email (log mailer)", "to", msg.ToEmail, "subject", msg.Subject)
	l.mu.Lock()
	l.Sent = append(l.Sent, msg)
	l.mu.Unlock()
	return nil
}

func (l *LogMailer) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.Sent...)
}

package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"domio/internal/config"

	"github.com/wneessen/go-mail"
)

// SMTP delivers plain text mail through an authenticated SMTP relay.
type SMTP struct {
	client *mail.Client
	from   string
}

func NewSMTP(cfg config.Mail) (*SMTP, error) {
	const op = "mailer.NewSMTP"

	c, err := mail.NewClient(
		cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &SMTP{client: c, from: cfg.From}, nil
}

func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	const op = "mailer.SMTP.Send"

	msg, err := newMessage(s.from, to, subject, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func newMessage(from, to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}

// Log writes messages to the logger instead of sending them.
type Log struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Send(_ context.Context, to, subject, body string) error {
	l.log.Info("email",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_size", len(body)),
	)
	return nil
}

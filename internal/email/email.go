package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender logs emails instead of sending them — used in ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("email (local dev)", "to", to, "subject", subject, "body", body)
	return nil
}

// ResendSender sends emails via the Resend API — used in staging/production.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local, ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// VerificationBody builds the account verification email.
func VerificationBody(link string) (subject, body string) {
	return "Verify your email", fmt.Sprintf(
		`<p>Click the link below to verify your email (valid for 10 minutes):</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
}

// ContactBody builds the message relayed to an item's poster.
func ContactBody(from, itemTitle, message string) (subject, body string) {
	return "Someone responded to your Lost & Found post", fmt.Sprintf(
		`<p>Message from: %s</p><p>Regarding: %s</p><p>%s</p>`,
		from, itemTitle, message,
	)
}

// PasswordResetBody builds the password reset email.
func PasswordResetBody(link string) (subject, body string) {
	return "Reset your password", fmt.Sprintf(
		`<p>You requested a password reset. Click the link below (valid for 10 minutes):</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
}

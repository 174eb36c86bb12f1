package services

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// EmailSender is the transactional email channel of the dispatcher.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) (messageID string, err error)
}

// ResendMailer sends email through the Resend API. The API key comes
// from configuration; when it is empty the mailer degrades to logging,
// which keeps development environments working without a provider
// account.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a ResendMailer. An empty apiKey yields a
// degraded mailer that only logs.
func NewResendMailer(apiKey, from string) *ResendMailer {
	m := &ResendMailer{from: from}
	if apiKey != "" {
		m.client = resend.NewClient(apiKey)
	}
	return m
}

// Configured reports whether a real provider key is present.
func (m *ResendMailer) Configured() bool {
	return m.client != nil
}

func (m *ResendMailer) SendEmail(ctx context.Context, to, subject, html string) (string, error) {
	if m.client == nil {
		log.Printf("[mailer] no RESEND_API_KEY configured, skipping email to %s (%s)", to, subject)
		return "", nil
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}
	return sent.Id, nil
}

// ResetCodeEmail renders the password reset email body around a
// verification code.
func ResetCodeEmail(code, expiresIn string) (subject, html string) {
	if expiresIn == "" {
		expiresIn = "15 minutes"
	}
	subject = "Password Reset Code - CivilConnect"
	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #2b3a55; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
      <h1 style="color: white; margin: 0; font-size: 28px;">CivilConnect</h1>
      <p style="color: rgba(255,255,255,0.9); margin: 10px 0 0 0;">Password Reset Request</p>
    </div>
    <div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; border: 1px solid #e0e0e0;">
      <h2 style="color: #333; margin-top: 0;">Your Verification Code</h2>
      <p style="font-size: 16px; color: #666;">
        You requested to reset your password. Use the verification code below to continue:
      </p>
      <div style="background: white; border: 2px dashed #2b3a55; border-radius: 8px; padding: 20px; text-align: center; margin: 30px 0;">
        <div style="font-size: 42px; font-weight: bold; letter-spacing: 8px; color: #2b3a55; font-family: 'Courier New', monospace;">%s</div>
      </div>
      <p style="font-size: 14px; color: #666; margin: 20px 0;">
        This code will expire in <strong>%s</strong>.
      </p>
      <p style="font-size: 14px; color: #856404;">
        If you didn't request this password reset, please ignore this email.
      </p>
      <hr style="border: none; border-top: 1px solid #e0e0e0; margin: 30px 0;">
      <p style="font-size: 12px; color: #999; text-align: center; margin: 0;">
        This is an automated message, please do not reply to this email.
      </p>
    </div>
  </body>
</html>`, code, expiresIn)
	return subject, html
}

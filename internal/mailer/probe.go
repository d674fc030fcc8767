package mailer

import (
	"context"
	"fmt"
)

// ProbeSettings are SMTP credentials under test from the admin dashboard.
type ProbeSettings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// TestConnection sends a single diagnostic message to the configured account
// itself, proving the credentials can authenticate and deliver.
func TestConnection(ctx context.Context, s ProbeSettings) error {
	fromName := s.FromName
	if fromName == "" {
		fromName = "JANUS Test"
	}
	fromEmail := s.FromEmail
	if fromEmail == "" {
		fromEmail = s.Username
	}

	sender := &SMTPSender{
		Host:      s.Host,
		Port:      s.Port,
		Username:  s.Username,
		Password:  s.Password,
		FromName:  fromName,
		FromEmail: fromEmail,
	}

	text := fmt.Sprintf("Congratulations! Your SMTP connection for JANUS is working correctly.\n\nHost: %s\nPort: %d\nUser: %s\n\nThis is an automated test email.",
		s.Host, s.Port, s.Username)
	html := fmt.Sprintf(`<div style="font-family: sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #2563eb;">JANUS SMTP Connection Test</h2>
  <p>Congratulations! Your SMTP connection for <strong>JANUS</strong> is working correctly.</p>
  <div style="background: #f1f5f9; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>Host:</strong> %s</p>
    <p style="margin: 5px 0;"><strong>Port:</strong> %d</p>
    <p style="margin: 5px 0;"><strong>User:</strong> %s</p>
  </div>
  <p>This is an automated test email. You can now use these credentials to send ticket notifications.</p>
</div>`, s.Host, s.Port, s.Username)

	return sender.Send(ctx, Message{
		To:      s.Username,
		Subject: "JANUS SMTP Test Connection",
		Text:    text,
		HTML:    html,
	})
}

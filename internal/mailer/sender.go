package mailer

import (
	"context"

	"github.com/wneessen/go-mail"
)

// Message is one outbound email. HTML is an optional alternative body.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a single message. Implementations make exactly one attempt;
// retry policy belongs to callers (and the pipeline deliberately has none).
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends through one resolved SMTP account.
type SMTPSender struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Send delivers msg over SMTP. Port 465 uses implicit TLS, everything else
// negotiates STARTTLS.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.FromName, s.FromEmail); err != nil {
		return err
	}
	if err := m.To(msg.To); err != nil {
		return err
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	opts := []mail.Option{
		mail.WithPort(s.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.Username),
		mail.WithPassword(s.Password),
	}
	if s.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(s.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, m)
}

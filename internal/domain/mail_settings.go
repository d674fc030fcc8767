package domain

import "time"

// MailSettings is one SMTP credential row from the settings store. A default
// row covers the whole portfolio; per-building rows override it.
type MailSettings struct {
	ID         int64
	Host       string
	Port       int
	Username   string
	Password   string
	FromName   *string
	FromEmail  *string
	IsDefault  bool
	BuildingID *int64
	CreatedAt  time.Time
}

// FromAddress resolves the display From header, falling back to the SMTP
// username when no explicit from identity is configured.
func (m MailSettings) FromAddress() (name, email string) {
	name = "JANUS"
	if m.FromName != nil && *m.FromName != "" {
		name = *m.FromName
	}
	email = m.Username
	if m.FromEmail != nil && *m.FromEmail != "" {
		email = *m.FromEmail
	}
	return name, email
}

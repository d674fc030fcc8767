package mailer

import (
	"context"

	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/config"
	"github.com/janus-pm/janus/internal/repository"
)

// SenderResolver yields a Sender for a building, or nil when no transport is
// configured anywhere. Resolution happens per call so dashboard credential
// edits take effect without a restart.
type SenderResolver interface {
	Resolve(ctx context.Context, buildingID *int64) Sender
}

// StoreResolver prefers the settings store (per-building row, then the
// default row) and falls back to the SMTP environment variables.
type StoreResolver struct {
	settings repository.MailSettingsRepository
	env      config.MailConfig
	logger   *zap.Logger
}

// NewStoreResolver builds the resolver.
func NewStoreResolver(settings repository.MailSettingsRepository, env config.MailConfig, logger *zap.Logger) *StoreResolver {
	return &StoreResolver{settings: settings, env: env, logger: logger}
}

// Resolve returns the best available transport, nil when none exists. Store
// errors degrade to the environment fallback rather than failing the caller.
func (r *StoreResolver) Resolve(ctx context.Context, buildingID *int64) Sender {
	if r.settings != nil {
		row, err := r.settings.Resolve(ctx, buildingID)
		if err != nil {
			r.logger.Warn("smtp settings lookup failed; using env fallback", zap.Error(err))
		} else if row != nil {
			fromName, fromEmail := row.FromAddress()
			return &SMTPSender{
				Host:      row.Host,
				Port:      row.Port,
				Username:  row.Username,
				Password:  row.Password,
				FromName:  fromName,
				FromEmail: fromEmail,
			}
		}
	}

	if r.env.Configured() {
		fromEmail := r.env.From
		if fromEmail == "" {
			fromEmail = r.env.Username
		}
		return &SMTPSender{
			Host:      r.env.Host,
			Port:      r.env.Port,
			Username:  r.env.Username,
			Password:  r.env.Password,
			FromName:  "JANUS",
			FromEmail: fromEmail,
		}
	}

	return nil
}

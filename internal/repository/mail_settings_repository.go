package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/janus-pm/janus/internal/domain"
)

// MailSettingsRepository reads SMTP credentials from the settings store.
type MailSettingsRepository interface {
	// Resolve returns the per-building row when buildingID is non-nil and one
	// exists, otherwise the default row, otherwise nil without error.
	Resolve(ctx context.Context, buildingID *int64) (*domain.MailSettings, error)
}

type mailSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewMailSettingsRepository builds repository.
func NewMailSettingsRepository(pool *pgxpool.Pool) MailSettingsRepository {
	return &mailSettingsRepository{pool: pool}
}

func (r *mailSettingsRepository) Resolve(ctx context.Context, buildingID *int64) (*domain.MailSettings, error) {
	const query = `
        SELECT id, host, port, username, password, from_name, from_email, is_default, building_id, created_at
        FROM smtp_settings
        WHERE (building_id = $1 AND $1 IS NOT NULL) OR is_default = TRUE
        ORDER BY building_id DESC NULLS LAST
        LIMIT 1`
	var s domain.MailSettings
	err := r.pool.QueryRow(ctx, query, buildingID).Scan(
		&s.ID,
		&s.Host,
		&s.Port,
		&s.Username,
		&s.Password,
		&s.FromName,
		&s.FromEmail,
		&s.IsDefault,
		&s.BuildingID,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

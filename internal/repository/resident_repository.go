package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/janus-pm/janus/internal/domain"
)

// ResidentRepository encapsulates resident lookups.
type ResidentRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Resident, error)
	List(ctx context.Context, limit, offset int) ([]domain.Resident, error)
}

type residentRepository struct {
	pool *pgxpool.Pool
}

// NewResidentRepository instantiates repository.
func NewResidentRepository(pool *pgxpool.Pool) ResidentRepository {
	return &residentRepository{pool: pool}
}

func (r *residentRepository) GetByEmail(ctx context.Context, email string) (*domain.Resident, error) {
	const query = `
        SELECT id, email, name, suite_number, building_id, created_at
        FROM residents WHERE LOWER(email)=LOWER($1)`
	var res domain.Resident
	if err := r.pool.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(
		&res.ID,
		&res.Email,
		&res.Name,
		&res.SuiteNumber,
		&res.BuildingID,
		&res.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *residentRepository) List(ctx context.Context, limit, offset int) ([]domain.Resident, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, email, name, suite_number, building_id, created_at
        FROM residents ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Resident
	for rows.Next() {
		var res domain.Resident
		if err := rows.Scan(
			&res.ID,
			&res.Email,
			&res.Name,
			&res.SuiteNumber,
			&res.BuildingID,
			&res.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, rows.Err()
}

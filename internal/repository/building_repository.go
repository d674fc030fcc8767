package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/janus-pm/janus/internal/domain"
)

// BuildingRepository encapsulates building lookups.
type BuildingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Building, error)
}

type buildingRepository struct {
	pool *pgxpool.Pool
}

// NewBuildingRepository instantiates repository.
func NewBuildingRepository(pool *pgxpool.Pool) BuildingRepository {
	return &buildingRepository{pool: pool}
}

func (r *buildingRepository) GetByID(ctx context.Context, id int64) (*domain.Building, error) {
	const query = `
        SELECT id, name, address, property_manager_name, property_manager_email, created_at
        FROM buildings WHERE id=$1`
	var b domain.Building
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Name,
		&b.Address,
		&b.PropertyManagerName,
		&b.PropertyManagerEmail,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/janus-pm/janus/internal/domain"
)

// VendorRepository encapsulates vendor persistence.
type VendorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vendor, error)
	// ListByCategory returns vendors for an exact category match ordered by
	// ascending id, which gives auto-assignment its deterministic tie-break.
	ListByCategory(ctx context.Context, category string) ([]domain.Vendor, error)
	List(ctx context.Context, limit, offset int) ([]domain.Vendor, error)
}

type vendorRepository struct {
	pool *pgxpool.Pool
}

// NewVendorRepository instantiates repository.
func NewVendorRepository(pool *pgxpool.Pool) VendorRepository {
	return &vendorRepository{pool: pool}
}

const vendorColumns = `id, company_name, email, phone, category, building_ids, created_at`

func (r *vendorRepository) GetByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id=$1`
	var v domain.Vendor
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.CompanyName,
		&v.Email,
		&v.Phone,
		&v.Category,
		&v.BuildingIDs,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepository) ListByCategory(ctx context.Context, category string) ([]domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE category=$1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVendors(rows)
}

func (r *vendorRepository) List(ctx context.Context, limit, offset int) ([]domain.Vendor, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + vendorColumns + ` FROM vendors ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVendors(rows)
}

func scanVendors(rows pgx.Rows) ([]domain.Vendor, error) {
	var result []domain.Vendor
	for rows.Next() {
		var v domain.Vendor
		if err := rows.Scan(
			&v.ID,
			&v.CompanyName,
			&v.Email,
			&v.Phone,
			&v.Category,
			&v.BuildingIDs,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

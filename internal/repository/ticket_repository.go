package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/janus-pm/janus/internal/domain"
)

// TicketFilter captures dashboard listing parameters.
type TicketFilter struct {
	States      []domain.TicketState
	Types       []domain.TicketType
	Urgencies   []domain.TicketUrgency
	BuildingID  *int64
	SenderEmail *string
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	Exists(ctx context.Context, ticketID string) (bool, error)
	AssignVendor(ctx context.Context, ticketID string, vendorID int64, state domain.TicketState) error
	UpdateState(ctx context.Context, ticketID string, state domain.TicketState) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_id, type, state, urgency, subject, damage_description,
               resident_name, sender_email, building_id, building_name, unit_number,
               repair_category, estimated_cost, assigned_vendor_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_id, type, state, urgency, subject, damage_description,
            resident_name, sender_email, building_id, building_name, unit_number,
            repair_category, estimated_cost, assigned_vendor_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketID,
		ticket.Type,
		ticket.State,
		ticket.Urgency,
		ticket.Subject,
		ticket.DamageDescription,
		ticket.ResidentName,
		ticket.SenderEmail,
		ticket.BuildingID,
		ticket.BuildingName,
		ticket.UnitNumber,
		ticket.RepairCategory,
		ticket.EstimatedCost,
		ticket.AssignedVendorID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.Type,
		&ticket.State,
		&ticket.Urgency,
		&ticket.Subject,
		&ticket.DamageDescription,
		&ticket.ResidentName,
		&ticket.SenderEmail,
		&ticket.BuildingID,
		&ticket.BuildingName,
		&ticket.UnitNumber,
		&ticket.RepairCategory,
		&ticket.EstimatedCost,
		&ticket.AssignedVendorID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Exists(ctx context.Context, ticketID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM tickets WHERE ticket_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketRepository) AssignVendor(ctx context.Context, ticketID string, vendorID int64, state domain.TicketState) error {
	const query = `
        UPDATE tickets SET assigned_vendor_id=$1, state=$2, updated_at=NOW()
        WHERE ticket_id=$3`
	cmd, err := r.pool.Exec(ctx, query, vendorID, state, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) UpdateState(ctx context.Context, ticketID string, state domain.TicketState) error {
	const query = `UPDATE tickets SET state=$1, updated_at=NOW() WHERE ticket_id=$2`
	cmd, err := r.pool.Exec(ctx, query, state, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, state := range filter.States {
			args = append(args, state)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("state IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			args = append(args, t)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Urgencies) > 0 {
		placeholders := make([]string, len(filter.Urgencies))
		for i, u := range filter.Urgencies {
			args = append(args, u)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("urgency IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.BuildingID != nil {
		args = append(args, *filter.BuildingID)
		clauses = append(clauses, fmt.Sprintf("building_id=$%d", len(args)))
	}
	if filter.SenderEmail != nil && strings.TrimSpace(*filter.SenderEmail) != "" {
		args = append(args, strings.TrimSpace(*filter.SenderEmail))
		clauses = append(clauses, fmt.Sprintf("LOWER(sender_email)=LOWER($%d)", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketID,
			&ticket.Type,
			&ticket.State,
			&ticket.Urgency,
			&ticket.Subject,
			&ticket.DamageDescription,
			&ticket.ResidentName,
			&ticket.SenderEmail,
			&ticket.BuildingID,
			&ticket.BuildingName,
			&ticket.UnitNumber,
			&ticket.RepairCategory,
			&ticket.EstimatedCost,
			&ticket.AssignedVendorID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

// IsUniqueViolation reports whether err is a postgres unique-constraint error.
// Ticket creation retries once with a fresh id when the generated ticket_id
// collides under concurrent load.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

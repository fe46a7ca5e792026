// internal/repository/postgres/deal_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pipeline-service/internal/domain/deal"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DealRepository struct {
	db *pgxpool.Pool
}

func NewDealRepository(db *pgxpool.Pool) *DealRepository {
	return &DealRepository{db: db}
}

const dealColumns = `
	id, title, value, currency, stage, priority, probability,
	source, lost_reason, expected_close,
	contact_name, contact_email, contact_phone,
	notes, tags, owner_id, company_id, created_at, updated_at
`

func (r *DealRepository) Create(ctx context.Context, d *deal.Deal) error {
	if err := insertDeal(ctx, r.db, d); err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	return nil
}

func (r *DealRepository) FindByID(ctx context.Context, companyID, id string) (*deal.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1 AND company_id = $2`

	d, err := scanDeal(r.db.QueryRow(ctx, query, id, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find deal: %w", err)
	}
	return d, nil
}

// Update writes the full row back, guarded by the updated_at the caller
// loaded. Zero rows affected on an existing deal means a concurrent
// writer got there first.
func (r *DealRepository) Update(ctx context.Context, d *deal.Deal, expectedUpdatedAt time.Time) error {
	query := `
		UPDATE deals
		SET title = $1, value = $2, currency = $3, stage = $4, priority = $5,
		    probability = $6, source = $7, lost_reason = $8, expected_close = $9,
		    contact_name = $10, contact_email = $11, contact_phone = $12,
		    notes = $13, tags = $14, owner_id = $15, updated_at = $16
		WHERE id = $17 AND company_id = $18 AND updated_at = $19
	`

	tag, err := r.db.Exec(
		ctx, query,
		d.Title, d.Value, d.Currency, d.Stage, d.Priority,
		d.Probability, d.Source, d.LostReason, d.ExpectedClose,
		d.ContactName, d.ContactEmail, d.ContactPhone,
		d.Notes, d.Tags, d.OwnerID, d.UpdatedAt,
		d.ID, d.CompanyID, expectedUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM deals WHERE id = $1 AND company_id = $2)`, d.ID, d.CompanyID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check deal existence: %w", err)
		}
		if exists {
			return xerrors.ErrConflict
		}
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *DealRepository) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deals WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *DealRepository) ListByCompany(ctx context.Context, companyID string) ([]*deal.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE company_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var deals []*deal.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deals: %w", err)
	}
	return deals, nil
}

func scanDeal(row pgx.Row) (*deal.Deal, error) {
	var d deal.Deal
	err := row.Scan(
		&d.ID, &d.Title, &d.Value, &d.Currency, &d.Stage, &d.Priority, &d.Probability,
		&d.Source, &d.LostReason, &d.ExpectedClose,
		&d.ContactName, &d.ContactEmail, &d.ContactPhone,
		&d.Notes, &d.Tags, &d.OwnerID, &d.CompanyID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

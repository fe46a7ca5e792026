// internal/repository/postgres/lead_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/domain/lead"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// execer is satisfied by both *pgxpool.Pool and pgx.Tx so the insert
// helpers can run inside or outside a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `
	id, name, email, phone, company, job_title, message,
	source, medium, utm_source, utm_medium, utm_campaign, utm_term, utm_content,
	referer, landing_page, campaign_id, status, score,
	converted_to_deal_id, converted_at, company_id, created_at
`

func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	query := `
		INSERT INTO leads (
			id, name, email, phone, company, job_title, message,
			source, medium, utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			referer, landing_page, campaign_id, status, score,
			converted_to_deal_id, converted_at, company_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err := r.db.Exec(
		ctx, query,
		l.ID, l.Name, l.Email, l.Phone, l.Company, l.JobTitle, l.Message,
		l.Source, l.Medium, l.UTMSource, l.UTMMedium, l.UTMCampaign, l.UTMTerm, l.UTMContent,
		l.Referer, l.LandingPage, l.CampaignID, l.Status, l.Score,
		l.ConvertedToDealID, l.ConvertedAt, l.CompanyID, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, companyID, id string) (*lead.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND company_id = $2`

	l, err := scanLead(r.db.QueryRow(ctx, query, id, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, companyID, id string, status lead.Status) (*lead.Lead, error) {
	query := `
		UPDATE leads SET status = $1
		WHERE id = $2 AND company_id = $3
		RETURNING ` + leadColumns

	l, err := scanLead(r.db.QueryRow(ctx, query, status, id, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}
	return l, nil
}

func (r *LeadRepository) List(ctx context.Context, companyID string, f lead.ListLeadsFilters) ([]*lead.Lead, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + leadColumns + ` FROM leads WHERE company_id = $1`)

	args := []any{companyID}
	if f.Source != "" {
		args = append(args, f.Source)
		sb.WriteString(` AND source = $` + strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		sb.WriteString(` AND status = $` + strconv.Itoa(len(args)))
	}
	if f.CampaignID != "" {
		args = append(args, f.CampaignID)
		sb.WriteString(` AND campaign_id = $` + strconv.Itoa(len(args)))
	}
	sb.WriteString(` ORDER BY created_at DESC`)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}

	return r.queryLeads(ctx, sb.String(), args...)
}

func (r *LeadRepository) ListByCampaign(ctx context.Context, companyID, campaignID string) ([]*lead.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE company_id = $1 AND campaign_id = $2 ORDER BY created_at DESC`
	return r.queryLeads(ctx, query, companyID, campaignID)
}

func (r *LeadRepository) CountsByCampaign(ctx context.Context, companyID string) (map[string]int, error) {
	query := `
		SELECT campaign_id, COUNT(*)
		FROM leads
		WHERE company_id = $1 AND campaign_id IS NOT NULL
		GROUP BY campaign_id
	`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by campaign: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan lead count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lead counts: %w", err)
	}
	return counts, nil
}

func (r *LeadRepository) ListByCompany(ctx context.Context, companyID string) ([]*lead.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE company_id = $1 ORDER BY created_at DESC`
	return r.queryLeads(ctx, query, companyID)
}

// Convert marks the lead converted, inserts the seeded deal and its
// CREATE activity entry in one transaction. The status guard in the
// UPDATE keeps a racing second conversion from producing two deals.
func (r *LeadRepository) Convert(ctx context.Context, l *lead.Lead, d *deal.Deal, e *activity.Entry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin conversion: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE leads
		SET status = $1, converted_to_deal_id = $2, converted_at = $3
		WHERE id = $4 AND company_id = $5 AND status <> $1
	`, lead.StatusConverted, l.ConvertedToDealID, l.ConvertedAt, l.ID, l.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to mark lead converted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrAlreadyConverted
	}

	if err := insertDeal(ctx, tx, d); err != nil {
		return fmt.Errorf("failed to create deal from lead: %w", err)
	}
	if err := insertActivity(ctx, tx, e); err != nil {
		return fmt.Errorf("failed to record conversion activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit conversion: %w", err)
	}
	return nil
}

func (r *LeadRepository) queryLeads(ctx context.Context, query string, args ...any) ([]*lead.Lead, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []*lead.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}
	return leads, nil
}

func scanLead(row pgx.Row) (*lead.Lead, error) {
	var l lead.Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.JobTitle, &l.Message,
		&l.Source, &l.Medium, &l.UTMSource, &l.UTMMedium, &l.UTMCampaign, &l.UTMTerm, &l.UTMContent,
		&l.Referer, &l.LandingPage, &l.CampaignID, &l.Status, &l.Score,
		&l.ConvertedToDealID, &l.ConvertedAt, &l.CompanyID, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func insertDeal(ctx context.Context, q execer, d *deal.Deal) error {
	_, err := q.Exec(ctx, `
		INSERT INTO deals (
			id, title, value, currency, stage, priority, probability,
			source, lost_reason, expected_close,
			contact_name, contact_email, contact_phone,
			notes, tags, owner_id, company_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`,
		d.ID, d.Title, d.Value, d.Currency, d.Stage, d.Priority, d.Probability,
		d.Source, d.LostReason, d.ExpectedClose,
		d.ContactName, d.ContactEmail, d.ContactPhone,
		d.Notes, d.Tags, d.OwnerID, d.CompanyID, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

// internal/repository/postgres/campaign_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"pipeline-service/internal/domain/campaign"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignRepository struct {
	db *pgxpool.Pool
}

func NewCampaignRepository(db *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `
	id, name, code, platform, description, budget, spend,
	impressions, clicks, conversions, start_date, end_date,
	status, company_id, created_at
`

func (r *CampaignRepository) FindByID(ctx context.Context, companyID, id string) (*campaign.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 AND company_id = $2`

	c, err := scanCampaign(r.db.QueryRow(ctx, query, id, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepository) FindByCode(ctx context.Context, companyID, code string) (*campaign.Campaign, error) {
	// Exact case-insensitive match first, then substring either way so
	// "SUMMER24" attaches leads tagged "summer24-retarget".
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE company_id = $1
		  AND (UPPER(code) = UPPER($2) OR UPPER(code) LIKE '%' || UPPER($2) || '%' OR UPPER($2) LIKE '%' || UPPER(code) || '%')
		ORDER BY (UPPER(code) = UPPER($2)) DESC, created_at DESC
		LIMIT 1
	`

	c, err := scanCampaign(r.db.QueryRow(ctx, query, companyID, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find campaign by code: %w", err)
	}
	return c, nil
}

func (r *CampaignRepository) ListByCompany(ctx context.Context, companyID string) ([]*campaign.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE company_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*campaign.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *CampaignRepository) IncrementConversions(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE campaigns SET conversions = conversions + 1 WHERE id = $1 AND company_id = $2`,
		id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment campaign conversions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func scanCampaign(row pgx.Row) (*campaign.Campaign, error) {
	var c campaign.Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.Code, &c.Platform, &c.Description, &c.Budget, &c.Spend,
		&c.Impressions, &c.Clicks, &c.Conversions, &c.StartDate, &c.EndDate,
		&c.Status, &c.CompanyID, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

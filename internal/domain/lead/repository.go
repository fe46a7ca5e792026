// internal/domain/lead/repository.go
package lead

import (
	"context"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/domain/deal"
)

type Repository interface {
	Create(ctx context.Context, l *Lead) error
	FindByID(ctx context.Context, companyID, id string) (*Lead, error)
	UpdateStatus(ctx context.Context, companyID, id string, status Status) (*Lead, error)
	List(ctx context.Context, companyID string, f ListLeadsFilters) ([]*Lead, error)
	ListByCampaign(ctx context.Context, companyID, campaignID string) ([]*Lead, error)
	CountsByCampaign(ctx context.Context, companyID string) (map[string]int, error)
	ListByCompany(ctx context.Context, companyID string) ([]*Lead, error)

	// Convert flips the lead to CONVERTED, creates the seeded deal and
	// appends its CREATE activity entry in a single transaction: either
	// all three writes land or none do.
	Convert(ctx context.Context, l *Lead, d *deal.Deal, e *activity.Entry) error
}

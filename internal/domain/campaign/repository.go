// internal/domain/campaign/repository.go
package campaign

import "context"

type Repository interface {
	FindByID(ctx context.Context, companyID, id string) (*Campaign, error)
	// FindByCode matches the attribution token case-insensitively,
	// falling back to a substring match the way lead intake does.
	FindByCode(ctx context.Context, companyID, code string) (*Campaign, error)
	ListByCompany(ctx context.Context, companyID string) ([]*Campaign, error)
	IncrementConversions(ctx context.Context, companyID, id string) error
}

// internal/domain/deal/repository.go
package deal

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, d *Deal) error
	FindByID(ctx context.Context, companyID, id string) (*Deal, error)
	// Update persists d only if the stored row still carries
	// expectedUpdatedAt; a mismatch means a concurrent writer won and the
	// call fails with xerrors.ErrConflict.
	Update(ctx context.Context, d *Deal, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, companyID, id string) error

	// ListByCompany returns all deals for the tenant ordered by
	// updated_at descending. Analytics reads operate over this snapshot.
	ListByCompany(ctx context.Context, companyID string) ([]*Deal, error)
}

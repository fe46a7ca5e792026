package memory

import (
	"context"
	"sort"
	"time"

	"pipeline-service/internal/domain/deal"
	xerrors "pipeline-service/internal/pkg/errors"
)

type DealRepository struct {
	s *Store
}

func (r *DealRepository) Create(_ context.Context, d *deal.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deals[d.ID] = copyDeal(d)
	return nil
}

func (r *DealRepository) FindByID(_ context.Context, companyID, id string) (*deal.Deal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.deals[id]
	if !ok || d.CompanyID != companyID {
		return nil, xerrors.ErrNotFound
	}
	return copyDeal(d), nil
}

func (r *DealRepository) Update(_ context.Context, d *deal.Deal, expectedUpdatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.deals[d.ID]
	if !ok || cur.CompanyID != d.CompanyID {
		return xerrors.ErrNotFound
	}
	if !cur.UpdatedAt.Equal(expectedUpdatedAt) {
		return xerrors.ErrConflict
	}
	r.s.deals[d.ID] = copyDeal(d)
	return nil
}

func (r *DealRepository) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deals[id]
	if !ok || d.CompanyID != companyID {
		return xerrors.ErrNotFound
	}
	delete(r.s.deals, id)
	return nil
}

func (r *DealRepository) ListByCompany(_ context.Context, companyID string) ([]*deal.Deal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var deals []*deal.Deal
	for _, d := range r.s.deals {
		if d.CompanyID == companyID {
			deals = append(deals, copyDeal(d))
		}
	}
	sort.Slice(deals, func(i, j int) bool {
		if !deals[i].UpdatedAt.Equal(deals[j].UpdatedAt) {
			return deals[i].UpdatedAt.After(deals[j].UpdatedAt)
		}
		return deals[i].ID < deals[j].ID
	})
	return deals, nil
}

package memory

import (
	"context"
	"sort"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/domain/lead"
	xerrors "pipeline-service/internal/pkg/errors"
)

type LeadRepository struct {
	s *Store
}

func (r *LeadRepository) Create(_ context.Context, l *lead.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.leads[l.ID] = copyLead(l)
	return nil
}

func (r *LeadRepository) FindByID(_ context.Context, companyID, id string) (*lead.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.leads[id]
	if !ok || l.CompanyID != companyID {
		return nil, xerrors.ErrNotFound
	}
	return copyLead(l), nil
}

func (r *LeadRepository) UpdateStatus(_ context.Context, companyID, id string, status lead.Status) (*lead.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok || l.CompanyID != companyID {
		return nil, xerrors.ErrNotFound
	}
	l.Status = status
	return copyLead(l), nil
}

func (r *LeadRepository) List(_ context.Context, companyID string, f lead.ListLeadsFilters) ([]*lead.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var leads []*lead.Lead
	for _, l := range r.s.leads {
		if l.CompanyID != companyID {
			continue
		}
		if f.Source != "" && string(l.Source) != f.Source {
			continue
		}
		if f.Status != "" && string(l.Status) != f.Status {
			continue
		}
		if f.CampaignID != "" && l.CampaignID.String != f.CampaignID {
			continue
		}
		leads = append(leads, copyLead(l))
	}
	sortLeads(leads)
	if f.Limit > 0 && len(leads) > f.Limit {
		leads = leads[:f.Limit]
	}
	return leads, nil
}

func (r *LeadRepository) ListByCampaign(_ context.Context, companyID, campaignID string) ([]*lead.Lead, error) {
	return r.List(context.Background(), companyID, lead.ListLeadsFilters{CampaignID: campaignID})
}

func (r *LeadRepository) CountsByCampaign(_ context.Context, companyID string) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[string]int)
	for _, l := range r.s.leads {
		if l.CompanyID == companyID && l.CampaignID.Valid {
			counts[l.CampaignID.String]++
		}
	}
	return counts, nil
}

func (r *LeadRepository) ListByCompany(_ context.Context, companyID string) ([]*lead.Lead, error) {
	return r.List(context.Background(), companyID, lead.ListLeadsFilters{})
}

func (r *LeadRepository) Convert(_ context.Context, l *lead.Lead, d *deal.Deal, e *activity.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.leads[l.ID]
	if !ok || cur.CompanyID != l.CompanyID {
		return xerrors.ErrNotFound
	}
	if cur.Status == lead.StatusConverted {
		return xerrors.ErrAlreadyConverted
	}
	cur.Status = lead.StatusConverted
	cur.ConvertedToDealID = l.ConvertedToDealID
	cur.ConvertedAt = l.ConvertedAt
	r.s.deals[d.ID] = copyDeal(d)
	cp := *e
	r.s.activities = append(r.s.activities, &cp)
	return nil
}

func sortLeads(leads []*lead.Lead) {
	sort.Slice(leads, func(i, j int) bool {
		if !leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].CreatedAt.After(leads[j].CreatedAt)
		}
		return leads[i].ID < leads[j].ID
	})
}

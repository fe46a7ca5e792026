package memory

import (
	"context"
	"sort"
	"strings"

	"pipeline-service/internal/domain/campaign"
	xerrors "pipeline-service/internal/pkg/errors"
)

type CampaignRepository struct {
	s *Store
}

func (r *CampaignRepository) FindByID(_ context.Context, companyID, id string) (*campaign.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.campaigns[id]
	if !ok || c.CompanyID != companyID {
		return nil, xerrors.ErrNotFound
	}
	return copyCampaign(c), nil
}

func (r *CampaignRepository) FindByCode(_ context.Context, companyID, code string) (*campaign.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToUpper(code)
	var exact, partial *campaign.Campaign
	for _, c := range r.s.campaigns {
		if c.CompanyID != companyID {
			continue
		}
		have := strings.ToUpper(c.Code)
		switch {
		case have == needle:
			exact = c
		case strings.Contains(have, needle) || strings.Contains(needle, have):
			if partial == nil {
				partial = c
			}
		}
	}
	if exact != nil {
		return copyCampaign(exact), nil
	}
	if partial != nil {
		return copyCampaign(partial), nil
	}
	return nil, xerrors.ErrNotFound
}

func (r *CampaignRepository) ListByCompany(_ context.Context, companyID string) ([]*campaign.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var campaigns []*campaign.Campaign
	for _, c := range r.s.campaigns {
		if c.CompanyID == companyID {
			campaigns = append(campaigns, copyCampaign(c))
		}
	}
	sort.Slice(campaigns, func(i, j int) bool {
		if !campaigns[i].CreatedAt.Equal(campaigns[j].CreatedAt) {
			return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
		}
		return campaigns[i].ID < campaigns[j].ID
	})
	return campaigns, nil
}

func (r *CampaignRepository) IncrementConversions(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.campaigns[id]
	if !ok || c.CompanyID != companyID {
		return xerrors.ErrNotFound
	}
	c.Conversions++
	return nil
}

// internal/service/campaign/campaign.go
package campaign

import (
	"context"
	"math"

	"pipeline-service/internal/domain/campaign"
	"pipeline-service/internal/domain/lead"

	"go.uber.org/zap"
)

// CostService joins campaign spend with attributed lead counts to derive
// cost-per-lead and tenant-wide roll-ups. Read-only: campaign CRUD is
// managed elsewhere.
type CostService struct {
	campaignRepo campaign.Repository
	leadRepo     lead.Repository
	logger       *zap.Logger
}

func NewCostService(campaignRepo campaign.Repository, leadRepo lead.Repository, logger *zap.Logger) *CostService {
	return &CostService{
		campaignRepo: campaignRepo,
		leadRepo:     leadRepo,
		logger:       logger,
	}
}

func (s *CostService) List(ctx context.Context, companyID string) ([]*campaign.Campaign, error) {
	return s.campaignRepo.ListByCompany(ctx, companyID)
}

// Metrics computes the per-campaign performance view. Cost per lead is
// only defined when both spend and lead count are positive.
func (s *CostService) Metrics(ctx context.Context, companyID, campaignID string) (*campaign.Metrics, error) {
	c, err := s.campaignRepo.FindByID(ctx, companyID, campaignID)
	if err != nil {
		return nil, err
	}

	leads, err := s.leadRepo.ListByCampaign(ctx, companyID, campaignID)
	if err != nil {
		return nil, err
	}

	m := &campaign.Metrics{
		CampaignID: c.ID,
		Name:       c.Name,
		Code:       c.Code,
		Platform:   c.Platform,
		LeadCount:  len(leads),
		Spend:      c.Spend,
	}
	if c.Budget.Valid {
		m.Budget = c.Budget.Float64
	}

	scoreSum := 0
	for _, l := range leads {
		if l.Status == lead.StatusConverted {
			m.ConvertedLeads++
		}
		scoreSum += l.Score
	}
	if len(leads) > 0 {
		m.AvgLeadScore = int(math.Round(float64(scoreSum) / float64(len(leads))))
	}

	if c.Spend > 0 && len(leads) > 0 {
		cpl := math.Round(c.Spend/float64(len(leads))*100) / 100
		m.CostPerLead = &cpl
	}

	return m, nil
}

// Rollup aggregates every campaign of the tenant. A missing budget
// counts as zero.
func (s *CostService) Rollup(ctx context.Context, companyID string) (*campaign.Rollup, error) {
	campaigns, err := s.campaignRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	leadCounts, err := s.leadRepo.CountsByCampaign(ctx, companyID)
	if err != nil {
		return nil, err
	}

	r := &campaign.Rollup{}
	for _, c := range campaigns {
		if c.Status == campaign.StatusActive {
			r.ActiveCount++
		}
		if c.Budget.Valid {
			r.TotalBudget += c.Budget.Float64
		}
		r.TotalSpend += c.Spend
		r.TotalLeads += leadCounts[c.ID]
	}
	return r, nil
}

// internal/service/analytics/stats.go
package analytics

import (
	"context"
	"math"

	"pipeline-service/internal/domain/deal"
)

// PipelineStats is the KPI header of the dashboard.
type PipelineStats struct {
	PipelineValue float64 `json:"pipeline_value"`
	ActiveDeals   int     `json:"active_deals"`
	WinRate       int     `json:"win_rate"`
	AvgDealSize   int     `json:"avg_deal_size"`
}

// FunnelStage is one bar of the sales funnel.
type FunnelStage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// funnelOrder fixes the funnel's presentation order. Closed-lost deals
// are excluded; WON is the funnel's terminal bar.
var funnelOrder = []deal.Stage{
	deal.StageNew,
	deal.StageContacted,
	deal.StageProposal,
	deal.StageNegotiation,
	deal.StageWon,
}

// PipelineStats computes pipeline value, active deal count, win rate and
// average won deal size. Every ratio guards its denominator: no deals
// closed means a 0 win rate, not NaN.
func (s *Service) PipelineStats(ctx context.Context, companyID string) (*PipelineStats, error) {
	deals, err := s.dealRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var (
		stats     PipelineStats
		wonCount  int
		lostCount int
		wonValue  float64
	)
	for _, d := range deals {
		switch d.Stage {
		case deal.StageWon:
			wonCount++
			wonValue += d.Value
		case deal.StageLost:
			lostCount++
		default:
			stats.ActiveDeals++
			stats.PipelineValue += d.Value
		}
	}

	if closed := wonCount + lostCount; closed > 0 {
		stats.WinRate = int(math.Round(float64(wonCount) / float64(closed) * 100))
	}
	if wonCount > 0 {
		stats.AvgDealSize = int(math.Round(wonValue / float64(wonCount)))
	}
	return &stats, nil
}

// SalesFunnel counts deals per stage in the fixed funnel order.
func (s *Service) SalesFunnel(ctx context.Context, companyID string) ([]FunnelStage, error) {
	deals, err := s.dealRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	counts := make(map[deal.Stage]int)
	for _, d := range deals {
		counts[d.Stage]++
	}

	funnel := make([]FunnelStage, 0, len(funnelOrder))
	for _, stage := range funnelOrder {
		funnel = append(funnel, FunnelStage{Name: string(stage), Count: counts[stage]})
	}
	return funnel, nil
}

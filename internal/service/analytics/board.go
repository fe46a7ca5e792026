// internal/service/analytics/board.go
package analytics

import (
	"context"
	"math"
	"time"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/service/scoring"
)

// StageStats is the per-column health view of the pipeline board.
type StageStats struct {
	Stage          deal.Stage `json:"stage"`
	Count          int        `json:"count"`
	TotalValue     float64    `json:"total_value"`
	StagnantCount  int        `json:"stagnant_count"`
	AvgDaysInStage int        `json:"avg_days_in_stage"`
	Bottleneck     bool       `json:"bottleneck"`
}

var boardStages = []deal.Stage{
	deal.StageNew,
	deal.StageContacted,
	deal.StageProposal,
	deal.StageNegotiation,
}

// BoardStats summarizes each active stage: deal count, total value,
// stagnant deals (>7 days without activity), average days since
// activity, and the bottleneck flag.
func (s *Service) BoardStats(ctx context.Context, companyID string) ([]StageStats, error) {
	deals, err := s.dealRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	byStage := make(map[deal.Stage][]*deal.Deal)
	for _, d := range deals {
		byStage[d.Stage] = append(byStage[d.Stage], d)
	}

	stats := make([]StageStats, 0, len(boardStages))
	for _, stage := range boardStages {
		st := StageStats{Stage: stage}
		dayTotal := 0
		for _, d := range byStage[stage] {
			st.Count++
			st.TotalValue += d.Value
			days := scoring.DaysSinceActivity(d, now)
			dayTotal += days
			if days > scoring.StagnantAfterDays {
				st.StagnantCount++
			}
		}
		if st.Count > 0 {
			st.AvgDaysInStage = int(math.Round(float64(dayTotal) / float64(st.Count)))
		}
		st.Bottleneck = scoring.Bottleneck(st.StagnantCount)
		stats = append(stats, st)
	}
	return stats, nil
}

// RecentActivity returns the newest pipeline events for the tenant.
func (s *Service) RecentActivity(ctx context.Context, companyID string, limit int) ([]*activity.Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.activityRepo.ListRecent(ctx, companyID, limit)
}

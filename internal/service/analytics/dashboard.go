// internal/service/analytics/dashboard.go
package analytics

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/domain/lead"

	"go.uber.org/zap"
)

const (
	dashboardCacheTTL = 30 * time.Second

	// StagnantPipelineDays is the dashboard's threshold for a deal with
	// no activity; stricter than the per-card 7-day flag.
	StagnantPipelineDays = 30

	forecastMonths = 3
	topN           = 5
)

// ForecastMonth is one bucket of the 3-month weighted revenue forecast.
type ForecastMonth struct {
	Name     string `json:"name"`
	Weighted int    `json:"weighted"`
	Total    int    `json:"total"`
}

type SourceCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

type LeaderboardEntry struct {
	Name     string  `json:"name"`
	WonValue float64 `json:"won_value"`
}

// Dashboard is the full high-performance stats payload.
type Dashboard struct {
	ForecastValue      int                `json:"forecast_value"`
	ForecastData       []ForecastMonth    `json:"forecast_data"`
	LeadSources        []SourceCount      `json:"lead_sources"`
	LostReasons        []ReasonCount      `json:"lost_reasons"`
	StagnantDealsCount int                `json:"stagnant_deals_count"`
	MoMGrowth          int                `json:"mom_growth"`
	AvgDaysToClose     int                `json:"avg_days_to_close"`
	WonValue           int                `json:"won_value"`
	MonthlyTarget      float64            `json:"monthly_target"`
	GoalProgress       int                `json:"goal_progress"`
	ActivityIntensity  int64              `json:"activity_intensity"`
	WinRate            int                `json:"win_rate"`
	Leaderboard        []LeaderboardEntry `json:"leaderboard"`
}

// Dashboard assembles every advanced metric from one snapshot. The
// result is cached briefly per tenant; the dashboard tolerates a few
// seconds of staleness.
func (s *Service) Dashboard(ctx context.Context, companyID string) (*Dashboard, error) {
	cacheKey := "analytics:dashboard:" + companyID
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var cached Dashboard
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	now := time.Now().UTC()
	snap, err := s.loadSnapshot(ctx, companyID, func() (int64, error) {
		n, err := s.activityRepo.CountSince(ctx, companyID, now.AddDate(0, 0, -7))
		return int64(n), err
	})
	if err != nil {
		return nil, err
	}

	dash := s.buildDashboard(snap, now)

	if s.cache != nil {
		if raw, err := json.Marshal(dash); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(raw), dashboardCacheTTL); err != nil {
				s.logger.Warn("failed to cache dashboard", zap.Error(err))
			}
		}
	}
	return dash, nil
}

func (s *Service) buildDashboard(snap *snapshot, now time.Time) *Dashboard {
	dash := &Dashboard{
		MonthlyTarget:     s.monthlyTarget,
		ActivityIntensity: snap.activityCount,
		ForecastData:      s.forecast(snap.deals, now),
	}

	// Forecast total sums the already-rounded month buckets. The small
	// rounding drift is part of the reporting contract.
	for _, m := range dash.ForecastData {
		dash.ForecastValue += m.Weighted
	}

	var (
		wonCount  int
		lostCount int
		wonValue  float64
		closeDays int
		curMonth  float64
		prevMonth float64
	)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)
	stagnantBefore := now.AddDate(0, 0, -StagnantPipelineDays)

	lostReasons := make(map[string]int)
	byOwner := make(map[string]float64)

	for _, d := range snap.deals {
		switch d.Stage {
		case deal.StageWon:
			wonCount++
			wonValue += d.Value
			closeDays += int(math.Ceil(d.UpdatedAt.Sub(d.CreatedAt).Hours() / 24))
			if d.OwnerID.Valid {
				byOwner[d.OwnerID.String] += d.Value
			}
		case deal.StageLost:
			lostCount++
			if d.LostReason.Valid {
				lostReasons[d.LostReason.String]++
			}
		default:
			if d.UpdatedAt.Before(stagnantBefore) {
				dash.StagnantDealsCount++
			}
		}

		if !d.CreatedAt.Before(monthStart) {
			curMonth += d.Value
		} else if !d.CreatedAt.Before(prevStart) && d.CreatedAt.Before(monthStart) {
			prevMonth += d.Value
		}
	}

	if closed := wonCount + lostCount; closed > 0 {
		dash.WinRate = int(math.Round(float64(wonCount) / float64(closed) * 100))
	}
	if wonCount > 0 {
		dash.AvgDaysToClose = int(math.Round(float64(closeDays) / float64(wonCount)))
	}
	dash.WonValue = int(math.Round(wonValue))

	// Zero previous month reports 100, never a division by zero.
	if prevMonth == 0 {
		dash.MoMGrowth = 100
	} else {
		dash.MoMGrowth = int(math.Round((curMonth - prevMonth) / prevMonth * 100))
	}

	if s.monthlyTarget > 0 {
		progress := int(math.Round(wonValue / s.monthlyTarget * 100))
		if progress > 100 {
			progress = 100
		}
		dash.GoalProgress = progress
	}

	dash.LeadSources = topLeadSources(snap.leads)
	dash.LostReasons = sortReasons(lostReasons)
	dash.Leaderboard = buildLeaderboard(byOwner, snap.userNames)

	return dash
}

// forecast buckets open deals by expected-close month for the current
// month and the following two. Each bucket rounds independently.
func (s *Service) forecast(deals []*deal.Deal, now time.Time) []ForecastMonth {
	months := make([]ForecastMonth, 0, forecastMonths)
	for i := 0; i < forecastMonths; i++ {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		end := start.AddDate(0, 1, 0)

		var weighted, total float64
		for _, d := range deals {
			if d.Stage.IsTerminal() || !d.ExpectedClose.Valid {
				continue
			}
			ec := d.ExpectedClose.Time
			if ec.Before(start) || !ec.Before(end) {
				continue
			}
			weighted += d.WeightedValue()
			total += d.Value
		}

		months = append(months, ForecastMonth{
			Name:     start.Format("Jan"),
			Weighted: int(math.Round(weighted)),
			Total:    int(math.Round(total)),
		})
	}
	return months
}

func topLeadSources(leads []*lead.Lead) []SourceCount {
	counts := make(map[lead.Source]int)
	for _, l := range leads {
		counts[l.Source]++
	}

	out := make([]SourceCount, 0, len(counts))
	for src, n := range counts {
		out = append(out, SourceCount{Name: string(src), Value: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func sortReasons(reasons map[string]int) []ReasonCount {
	out := make([]ReasonCount, 0, len(reasons))
	for r, n := range reasons {
		out = append(out, ReasonCount{Reason: r, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}

func buildLeaderboard(byOwner map[string]float64, names map[string]string) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(byOwner))
	for ownerID, value := range byOwner {
		name, ok := names[ownerID]
		if !ok || name == "" {
			name = "Unknown"
		}
		out = append(out, LeaderboardEntry{Name: name, WonValue: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WonValue != out[j].WonValue {
			return out[i].WonValue > out[j].WonValue
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

package analytics

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/domain/lead"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow keeps month-window math stable regardless of when the suite
// runs: mid-month, far from any boundary.
var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func mkDeal(stage deal.Stage, value float64, opts ...func(*deal.Deal)) *deal.Deal {
	d := &deal.Deal{
		ID:          ulid.Make().String(),
		Title:       "d",
		Value:       value,
		Stage:       stage,
		Probability: stage.DefaultProbability(),
		CompanyID:   testCompany,
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func closing(ts time.Time) func(*deal.Deal) {
	return func(d *deal.Deal) { d.ExpectedClose = sql.NullTime{Time: ts, Valid: true} }
}

func ownedBy(userID string) func(*deal.Deal) {
	return func(d *deal.Deal) { d.OwnerID = sql.NullString{String: userID, Valid: true} }
}

func TestBuildDashboard_GoalProgressCapsAt100(t *testing.T) {
	svc, _ := newTestService(t)

	snap := &snapshot{deals: []*deal.Deal{
		mkDeal(deal.StageWon, 10000),
		mkDeal(deal.StageWon, 20000),
		mkDeal(deal.StageWon, 30000),
	}}

	dash := svc.buildDashboard(snap, fixedNow)
	assert.Equal(t, 60000, dash.WonValue)
	assert.Equal(t, 100, dash.GoalProgress, "120% of target still reports 100")
}

func TestBuildDashboard_GoalProgressPartial(t *testing.T) {
	svc, _ := newTestService(t)

	snap := &snapshot{deals: []*deal.Deal{mkDeal(deal.StageWon, 12500)}}
	dash := svc.buildDashboard(snap, fixedNow)
	assert.Equal(t, 25, dash.GoalProgress)
}

func TestBuildDashboard_MoMGrowth(t *testing.T) {
	svc, _ := newTestService(t)

	// No deals created last month: growth pegs at 100.
	snap := &snapshot{deals: []*deal.Deal{mkDeal(deal.StageNew, 5000)}}
	dash := svc.buildDashboard(snap, fixedNow)
	assert.Equal(t, 100, dash.MoMGrowth)

	lastMonth := fixedNow.AddDate(0, -1, 0)
	snap = &snapshot{deals: []*deal.Deal{
		mkDeal(deal.StageNew, 3000),
		mkDeal(deal.StageNew, 2000, func(d *deal.Deal) { d.CreatedAt = lastMonth }),
	}}
	dash = svc.buildDashboard(snap, fixedNow)
	assert.Equal(t, 50, dash.MoMGrowth, "3000 this month vs 2000 last month")

	snap = &snapshot{deals: []*deal.Deal{
		mkDeal(deal.StageNew, 1000),
		mkDeal(deal.StageNew, 4000, func(d *deal.Deal) { d.CreatedAt = lastMonth }),
	}}
	dash = svc.buildDashboard(snap, fixedNow)
	assert.Equal(t, -75, dash.MoMGrowth)
}

func TestBuildDashboard_StagnantUsesThirtyDayWindow(t *testing.T) {
	svc, _ := newTestService(t)

	snap := &snapshot{deals: []*deal.Deal{
		mkDeal(deal.StageNew, 100, func(d *deal.Deal) { d.UpdatedAt = fixedNow.AddDate(0, 0, -31) }),
		mkDeal(deal.StageProposal, 100, func(d *deal.Deal) { d.UpdatedAt = fixedNow.AddDate(0, 0, -29) }),
		// Closed deals are never stagnant, however old.
		mkDeal(deal.StageLost, 100, func(d *deal.Deal) { d.UpdatedAt = fixedNow.AddDate(0, 0, -90) }),
	}}

	dash := svc.buildDashboard(snap, fixedNow)
	assert.Equal(t, 1, dash.StagnantDealsCount)
}

func TestBuildDashboard_AvgDaysToClose(t *testing.T) {
	svc, _ := newTestService(t)

	// 36h rounds up to 2 days per deal, then the mean rounds.
	fast := mkDeal(deal.StageWon, 100)
	fast.CreatedAt = fixedNow.Add(-36 * time.Hour)
	slow := mkDeal(deal.StageWon, 100)
	slow.CreatedAt = fixedNow.AddDate(0, 0, -10)

	dash := svc.buildDashboard(&snapshot{deals: []*deal.Deal{fast, slow}}, fixedNow)
	assert.Equal(t, 6, dash.AvgDaysToClose)
}

func TestBuildDashboard_Leaderboard(t *testing.T) {
	svc, _ := newTestService(t)

	snap := &snapshot{
		deals: []*deal.Deal{
			mkDeal(deal.StageWon, 8000, ownedBy("u-alice")),
			mkDeal(deal.StageWon, 2000, ownedBy("u-alice")),
			mkDeal(deal.StageWon, 7000, ownedBy("u-ghost")),
			mkDeal(deal.StageWon, 4000), // no owner, excluded
		},
		userNames: map[string]string{"u-alice": "Alice"},
	}

	dash := svc.buildDashboard(snap, fixedNow)
	require.Len(t, dash.Leaderboard, 2)
	assert.Equal(t, LeaderboardEntry{Name: "Alice", WonValue: 10000}, dash.Leaderboard[0])
	assert.Equal(t, LeaderboardEntry{Name: "Unknown", WonValue: 7000}, dash.Leaderboard[1])
}

func TestBuildDashboard_LostReasonsSorted(t *testing.T) {
	svc, _ := newTestService(t)

	lost := func(reason string) *deal.Deal {
		return mkDeal(deal.StageLost, 100, func(d *deal.Deal) {
			d.LostReason = sql.NullString{String: reason, Valid: true}
		})
	}
	snap := &snapshot{deals: []*deal.Deal{
		lost("PRICE"), lost("PRICE"), lost("TIMING"), lost("GHOSTED"), lost("TIMING"), lost("PRICE"),
	}}

	dash := svc.buildDashboard(snap, fixedNow)
	assert.Equal(t, []ReasonCount{
		{Reason: "PRICE", Count: 3},
		{Reason: "TIMING", Count: 2},
		{Reason: "GHOSTED", Count: 1},
	}, dash.LostReasons)
}

func TestForecast_BucketsAndRounding(t *testing.T) {
	svc, _ := newTestService(t)

	deals := []*deal.Deal{
		// June: NEW at 10% of 1005 weighs 100.5, rounds to 101 (bucket rounds, not the addends).
		mkDeal(deal.StageNew, 1005, closing(fixedNow.AddDate(0, 0, 3))),
		// July: PROPOSAL at 60%.
		mkDeal(deal.StageProposal, 2000, closing(fixedNow.AddDate(0, 1, 0))),
		// August: NEGOTIATION at 80%.
		mkDeal(deal.StageNegotiation, 1000, closing(fixedNow.AddDate(0, 2, 0))),
		// Out of window.
		mkDeal(deal.StageNew, 9999, closing(fixedNow.AddDate(0, 4, 0))),
		// Terminal and undated deals never forecast.
		mkDeal(deal.StageWon, 9999, closing(fixedNow)),
		mkDeal(deal.StageNew, 9999),
	}

	months := svc.forecast(deals, fixedNow)
	require.Len(t, months, 3)

	assert.Equal(t, ForecastMonth{Name: "Jun", Weighted: 101, Total: 1005}, months[0])
	assert.Equal(t, ForecastMonth{Name: "Jul", Weighted: 1200, Total: 2000}, months[1])
	assert.Equal(t, ForecastMonth{Name: "Aug", Weighted: 800, Total: 1000}, months[2])

	dash := svc.buildDashboard(&snapshot{deals: deals}, fixedNow)
	assert.Equal(t, 101+1200+800, dash.ForecastValue, "total sums the rounded buckets")
}

func TestTopLeadSources_TopFive(t *testing.T) {
	mk := func(src lead.Source, n int) []*lead.Lead {
		out := make([]*lead.Lead, n)
		for i := range out {
			out[i] = &lead.Lead{ID: ulid.Make().String(), Source: src}
		}
		return out
	}

	var leads []*lead.Lead
	leads = append(leads, mk(lead.SourceGoogle, 6)...)
	leads = append(leads, mk(lead.SourceFacebook, 5)...)
	leads = append(leads, mk(lead.SourceLinkedIn, 4)...)
	leads = append(leads, mk(lead.SourceEmail, 3)...)
	leads = append(leads, mk(lead.SourceDirect, 2)...)
	leads = append(leads, mk(lead.SourceTikTok, 1)...)

	out := topLeadSources(leads)
	require.Len(t, out, 5)
	assert.Equal(t, SourceCount{Name: "GOOGLE", Value: 6}, out[0])
	assert.Equal(t, SourceCount{Name: "DIRECT", Value: 2}, out[4])
}

func TestDashboard_EndToEnd(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedDeal(t, store, &deal.Deal{Stage: deal.StageWon, Value: 25000, Probability: 100})
	require.NoError(t, store.Activities().Append(ctx, &activity.Entry{
		ID:        ulid.Make().String(),
		Type:      activity.TypeWin,
		DealID:    "d1",
		DealTitle: "d",
		CompanyID: testCompany,
		CreatedAt: time.Now().UTC(),
	}))

	dash, err := svc.Dashboard(ctx, testCompany)
	require.NoError(t, err)

	assert.Equal(t, 25000, dash.WonValue)
	assert.Equal(t, 50, dash.GoalProgress)
	assert.Equal(t, 100, dash.WinRate)
	assert.Equal(t, testTarget, dash.MonthlyTarget)
	assert.Equal(t, int64(1), dash.ActivityIntensity)
}

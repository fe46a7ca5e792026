package analytics

import (
	"context"
	"testing"
	"time"

	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/repository/memory"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testCompany = "01COMPANY"
	testTarget  = 50000.0
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store.Deals(), store.Leads(), store.Activities(), store.Users(), nil, testTarget, zap.NewNop())
	return svc, store
}

func seedDeal(t *testing.T, store *memory.Store, d *deal.Deal) *deal.Deal {
	t.Helper()
	if d.ID == "" {
		d.ID = ulid.Make().String()
	}
	if d.Title == "" {
		d.Title = "Deal " + d.ID[:8]
	}
	if d.Stage == "" {
		d.Stage = deal.StageNew
	}
	if d.Probability == 0 {
		d.Probability = d.Stage.DefaultProbability()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	d.CompanyID = testCompany
	require.NoError(t, store.Deals().Create(context.Background(), d))
	return d
}

func TestPipelineStats(t *testing.T) {
	svc, store := newTestService(t)

	seedDeal(t, store, &deal.Deal{Stage: deal.StageNew, Value: 1000})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageProposal, Value: 4000})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageWon, Value: 9000, Probability: 100})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageWon, Value: 3000, Probability: 100})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageLost})

	stats, err := svc.PipelineStats(context.Background(), testCompany)
	require.NoError(t, err)

	assert.Equal(t, float64(5000), stats.PipelineValue, "closed deals stay out of pipeline value")
	assert.Equal(t, 2, stats.ActiveDeals)
	assert.Equal(t, 67, stats.WinRate, "2 of 3 closed deals won")
	assert.Equal(t, 6000, stats.AvgDealSize)
}

func TestPipelineStats_EmptyPipelineHasNoNaN(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.PipelineStats(context.Background(), testCompany)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.WinRate)
	assert.Equal(t, 0, stats.AvgDealSize)
	assert.Equal(t, float64(0), stats.PipelineValue)
}

func TestPipelineStats_AllWon(t *testing.T) {
	svc, store := newTestService(t)
	seedDeal(t, store, &deal.Deal{Stage: deal.StageWon, Value: 500, Probability: 100})

	stats, err := svc.PipelineStats(context.Background(), testCompany)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.WinRate)
}

func TestSalesFunnel_FixedOrder(t *testing.T) {
	svc, store := newTestService(t)

	seedDeal(t, store, &deal.Deal{Stage: deal.StageNegotiation, Value: 100})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageNew, Value: 100})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageNew, Value: 100})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageWon, Value: 100, Probability: 100})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageLost, Value: 100})

	funnel, err := svc.SalesFunnel(context.Background(), testCompany)
	require.NoError(t, err)
	require.Len(t, funnel, 5)

	assert.Equal(t, []FunnelStage{
		{Name: "NEW", Count: 2},
		{Name: "CONTACTED", Count: 0},
		{Name: "PROPOSAL", Count: 0},
		{Name: "NEGOTIATION", Count: 1},
		{Name: "WON", Count: 1},
	}, funnel, "lost deals never appear in the funnel")
}

package campaign

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"pipeline-service/internal/domain/campaign"
	"pipeline-service/internal/domain/lead"
	"pipeline-service/internal/repository/memory"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCompany = "01COMPANY"

func newTestService(t *testing.T) (*CostService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewCostService(store.Campaigns(), store.Leads(), zap.NewNop())
	return svc, store
}

func seedCampaign(store *memory.Store, c *campaign.Campaign) *campaign.Campaign {
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}
	c.CompanyID = testCompany
	c.CreatedAt = time.Now().UTC()
	store.SeedCampaign(c)
	return c
}

func seedLead(t *testing.T, store *memory.Store, campaignID string, score int, status lead.Status) {
	t.Helper()
	l := &lead.Lead{
		ID:        ulid.Make().String(),
		Email:     "x@y.com",
		Source:    lead.SourceGoogle,
		Status:    status,
		Score:     score,
		CompanyID: testCompany,
		CreatedAt: time.Now().UTC(),
	}
	if campaignID != "" {
		l.CampaignID = sql.NullString{String: campaignID, Valid: true}
	}
	require.NoError(t, store.Leads().Create(context.Background(), l))
}

func TestMetrics_CostPerLead(t *testing.T) {
	svc, store := newTestService(t)
	c := seedCampaign(store, &campaign.Campaign{
		Name:     "Winter ads",
		Code:     "WINTER",
		Platform: campaign.PlatformGoogle,
		Status:   campaign.StatusActive,
		Spend:    1000,
	})
	seedLead(t, store, c.ID, 80, lead.StatusConverted)
	seedLead(t, store, c.ID, 40, lead.StatusNew)
	seedLead(t, store, c.ID, 60, lead.StatusQualified)

	m, err := svc.Metrics(context.Background(), testCompany, c.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, m.LeadCount)
	assert.Equal(t, 1, m.ConvertedLeads)
	assert.Equal(t, 60, m.AvgLeadScore)
	require.NotNil(t, m.CostPerLead)
	assert.InDelta(t, 333.33, *m.CostPerLead, 0.0001)
}

func TestMetrics_CostPerLeadUndefined(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	noSpend := seedCampaign(store, &campaign.Campaign{
		Name: "Organic", Code: "ORG", Platform: campaign.PlatformOther, Status: campaign.StatusActive,
	})
	seedLead(t, store, noSpend.ID, 50, lead.StatusNew)

	m, err := svc.Metrics(ctx, testCompany, noSpend.ID)
	require.NoError(t, err)
	assert.Nil(t, m.CostPerLead, "zero spend never divides")

	noLeads := seedCampaign(store, &campaign.Campaign{
		Name: "Billboard", Code: "BB", Platform: campaign.PlatformOther, Status: campaign.StatusPaused, Spend: 5000,
	})
	m, err = svc.Metrics(ctx, testCompany, noLeads.ID)
	require.NoError(t, err)
	assert.Nil(t, m.CostPerLead, "no leads, no cost per lead")
	assert.Equal(t, 0, m.AvgLeadScore)
}

func TestMetrics_RoundsToCents(t *testing.T) {
	svc, store := newTestService(t)
	c := seedCampaign(store, &campaign.Campaign{
		Name: "Odd spend", Code: "ODD", Platform: campaign.PlatformFacebook,
		Status: campaign.StatusActive, Spend: 100,
	})
	seedLead(t, store, c.ID, 50, lead.StatusNew)
	seedLead(t, store, c.ID, 50, lead.StatusNew)
	seedLead(t, store, c.ID, 50, lead.StatusNew)

	m, err := svc.Metrics(context.Background(), testCompany, c.ID)
	require.NoError(t, err)
	require.NotNil(t, m.CostPerLead)
	assert.Equal(t, 33.33, *m.CostPerLead)
}

func TestRollup(t *testing.T) {
	svc, store := newTestService(t)

	a := seedCampaign(store, &campaign.Campaign{
		Name: "A", Code: "A1", Platform: campaign.PlatformGoogle,
		Status: campaign.StatusActive, Spend: 300,
		Budget: sql.NullFloat64{Float64: 1000, Valid: true},
	})
	b := seedCampaign(store, &campaign.Campaign{
		Name: "B", Code: "B1", Platform: campaign.PlatformFacebook,
		Status: campaign.StatusPaused, Spend: 200,
	})
	seedCampaign(store, &campaign.Campaign{
		Name: "C", Code: "C1", Platform: campaign.PlatformEmail,
		Status: campaign.StatusActive,
	})

	seedLead(t, store, a.ID, 50, lead.StatusNew)
	seedLead(t, store, a.ID, 50, lead.StatusNew)
	seedLead(t, store, b.ID, 50, lead.StatusNew)
	// An unattributed lead never counts toward campaign totals.
	seedLead(t, store, "", 50, lead.StatusNew)

	r, err := svc.Rollup(context.Background(), testCompany)
	require.NoError(t, err)

	assert.Equal(t, 2, r.ActiveCount)
	assert.Equal(t, float64(1000), r.TotalBudget, "missing budgets count as zero")
	assert.Equal(t, float64(500), r.TotalSpend)
	assert.Equal(t, 3, r.TotalLeads)
}

package lead

import (
	"context"
	"testing"
	"time"

	"pipeline-service/internal/domain/campaign"
	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/domain/lead"
	xerrors "pipeline-service/internal/pkg/errors"
	"pipeline-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCompany = "01COMPANY"

func newTestService(t *testing.T) (*AttributionService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewAttributionService(store.Leads(), store.Campaigns(), zap.NewNop())
	return svc, store
}

func seedCampaign(store *memory.Store, id, code string) {
	store.SeedCampaign(&campaign.Campaign{
		ID:        id,
		Name:      "Spring push",
		Code:      code,
		Platform:  campaign.PlatformLinkedIn,
		Status:    campaign.StatusActive,
		CompanyID: testCompany,
		CreatedAt: time.Now().UTC(),
	})
}

func TestCreate_ClassifiesAndScores(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.Create(context.Background(), testCompany, &lead.CreateLeadRequest{
		Email:     "dev@startup.io",
		Name:      "Dev Founder",
		UTMSource: "linkedin",
		UTMMedium: "cpc",
	})
	require.NoError(t, err)

	assert.Equal(t, lead.SourceLinkedIn, l.Source)
	assert.Equal(t, lead.MediumCPC, l.Medium)
	assert.Equal(t, lead.StatusNew, l.Status)
	// 20 email + 15 name + 15 linkedin bonus
	assert.Equal(t, 50, l.Score)
}

func TestCreate_MatchesCampaignByCode(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedCampaign(store, "01CAMP", "SPRING24")

	l, err := svc.Create(ctx, testCompany, &lead.CreateLeadRequest{
		Email:        "buyer@corp.com",
		CampaignCode: "spring24",
	})
	require.NoError(t, err)
	require.True(t, l.CampaignID.Valid)
	assert.Equal(t, "01CAMP", l.CampaignID.String)

	c, err := store.Campaigns().FindByID(ctx, testCompany, "01CAMP")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Conversions)
}

func TestCreate_FallsBackToUTMCampaign(t *testing.T) {
	svc, store := newTestService(t)
	seedCampaign(store, "01CAMP", "LAUNCH")

	l, err := svc.Create(context.Background(), testCompany, &lead.CreateLeadRequest{
		Email:       "buyer@corp.com",
		UTMCampaign: "launch-retarget",
	})
	require.NoError(t, err)
	assert.Equal(t, "01CAMP", l.CampaignID.String)
}

func TestCreate_UnmatchedCodeLeavesLeadUnattributed(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.Create(context.Background(), testCompany, &lead.CreateLeadRequest{
		Email:        "buyer@corp.com",
		CampaignCode: "NOSUCH",
	})
	require.NoError(t, err)
	assert.False(t, l.CampaignID.Valid)
}

func TestUpdateStatus_RejectsDirectConversion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, testCompany, &lead.CreateLeadRequest{Email: "a@b.com"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, testCompany, l.ID, lead.StatusConverted)
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	updated, err := svc.UpdateStatus(ctx, testCompany, l.ID, lead.StatusQualified)
	require.NoError(t, err)
	assert.Equal(t, lead.StatusQualified, updated.Status)
}

func TestConvertToDeal_SeedsDealFromLead(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, testCompany, &lead.CreateLeadRequest{
		Email:     "cto@acme.com",
		Name:      "Sam CTO",
		Phone:     "+1555",
		Company:   "Acme",
		JobTitle:  "CTO",
		UTMSource: "linkedin",
	})
	require.NoError(t, err)
	require.Equal(t, 95, l.Score)

	d, err := svc.ConvertToDeal(ctx, testCompany, "user-1", l.ID, &lead.ConvertLeadRequest{
		Title: "Acme platform deal",
		Value: 25000,
	})
	require.NoError(t, err)

	assert.Equal(t, deal.StageNew, d.Stage)
	assert.Equal(t, deal.PriorityHigh, d.Priority, "score 95 seeds a HIGH priority deal")
	assert.Equal(t, "LINKEDIN", d.Source)
	assert.Equal(t, "Sam CTO", d.ContactName.String)
	assert.Equal(t, "cto@acme.com", d.ContactEmail.String)
	assert.Equal(t, "+1555", d.ContactPhone.String)

	converted, err := store.Leads().FindByID(ctx, testCompany, l.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.StatusConverted, converted.Status)
	assert.Equal(t, d.ID, converted.ConvertedToDealID.String)
	assert.True(t, converted.ConvertedAt.Valid)

	entries, err := store.Activities().ListRecent(ctx, testCompany, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, d.ID, entries[0].DealID)
}

func TestConvertToDeal_ExactlyOnce(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, testCompany, &lead.CreateLeadRequest{Email: "once@only.com"})
	require.NoError(t, err)

	_, err = svc.ConvertToDeal(ctx, testCompany, "user-1", l.ID, &lead.ConvertLeadRequest{Title: "First deal"})
	require.NoError(t, err)

	_, err = svc.ConvertToDeal(ctx, testCompany, "user-1", l.ID, &lead.ConvertLeadRequest{Title: "Second deal"})
	assert.ErrorIs(t, err, xerrors.ErrAlreadyConverted)

	deals, err := store.Deals().ListByCompany(ctx, testCompany)
	require.NoError(t, err)
	assert.Len(t, deals, 1, "exactly one deal exists for a converted lead")
}

func TestConvertToDeal_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, testCompany, &lead.CreateLeadRequest{Email: "v@v.com"})
	require.NoError(t, err)

	_, err = svc.ConvertToDeal(ctx, testCompany, "user-1", l.ID, &lead.ConvertLeadRequest{Title: "x"})
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	_, err = svc.ConvertToDeal(ctx, testCompany, "user-1", l.ID, &lead.ConvertLeadRequest{Title: "Closed won already", Stage: "WON"})
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	_, err = svc.ConvertToDeal(ctx, testCompany, "user-1", "nope", &lead.ConvertLeadRequest{Title: "Ghost lead"})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestAnalyticsBySource(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seeds := []struct {
		email string
		utm   string
	}{
		{"a@x.com", "google"},
		{"b@x.com", "google"},
		{"c@x.com", "facebook"},
	}
	for _, s := range seeds {
		_, err := svc.Create(ctx, testCompany, &lead.CreateLeadRequest{Email: s.email, UTMSource: s.utm})
		require.NoError(t, err)
	}

	breakdown, err := svc.AnalyticsBySource(ctx, testCompany)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	assert.Equal(t, lead.SourceGoogle, breakdown[0].Source)
	assert.Equal(t, 2, breakdown[0].Count)
	// Every google lead scores 20 (email) + 10 (bonus)
	assert.Equal(t, 30, breakdown[0].AvgScore)
	assert.Equal(t, lead.SourceFacebook, breakdown[1].Source)
	assert.Equal(t, 1, breakdown[1].Count)
}

func TestPriorityForScore(t *testing.T) {
	assert.Equal(t, deal.PriorityHigh, priorityForScore(70))
	assert.Equal(t, deal.PriorityMedium, priorityForScore(40))
	assert.Equal(t, deal.PriorityLow, priorityForScore(39))
}

package analytics

import (
	"context"
	"testing"
	"time"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/domain/deal"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardStats(t *testing.T) {
	svc, store := newTestService(t)
	now := time.Now().UTC()

	fresh := now.Add(-1 * time.Hour)
	stale := now.AddDate(0, 0, -10)

	seedDeal(t, store, &deal.Deal{Stage: deal.StageNew, Value: 1000, CreatedAt: fresh, UpdatedAt: fresh})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageNew, Value: 2000, CreatedAt: stale, UpdatedAt: stale})
	seedDeal(t, store, &deal.Deal{Stage: deal.StageProposal, Value: 5000, CreatedAt: fresh, UpdatedAt: fresh})
	// Closed deals never appear on the board.
	seedDeal(t, store, &deal.Deal{Stage: deal.StageWon, Value: 9000, Probability: 100})

	stats, err := svc.BoardStats(context.Background(), testCompany)
	require.NoError(t, err)
	require.Len(t, stats, 4)

	newCol := stats[0]
	assert.Equal(t, deal.StageNew, newCol.Stage)
	assert.Equal(t, 2, newCol.Count)
	assert.Equal(t, float64(3000), newCol.TotalValue)
	assert.Equal(t, 1, newCol.StagnantCount)
	assert.Equal(t, 5, newCol.AvgDaysInStage)
	assert.False(t, newCol.Bottleneck)

	assert.Equal(t, deal.StageContacted, stats[1].Stage)
	assert.Equal(t, 0, stats[1].Count)

	proposal := stats[2]
	assert.Equal(t, 1, proposal.Count)
	assert.Equal(t, float64(5000), proposal.TotalValue)
	assert.Equal(t, 0, proposal.StagnantCount)
}

func TestBoardStats_BottleneckNeedsThreeStagnant(t *testing.T) {
	svc, store := newTestService(t)
	stale := time.Now().UTC().AddDate(0, 0, -10)

	for i := 0; i < 3; i++ {
		seedDeal(t, store, &deal.Deal{Stage: deal.StageNegotiation, Value: 100, CreatedAt: stale, UpdatedAt: stale})
	}

	stats, err := svc.BoardStats(context.Background(), testCompany)
	require.NoError(t, err)

	negotiation := stats[3]
	assert.Equal(t, deal.StageNegotiation, negotiation.Stage)
	assert.Equal(t, 3, negotiation.StagnantCount)
	assert.True(t, negotiation.Bottleneck)
}

func TestRecentActivity(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Activities().Append(ctx, &activity.Entry{
			ID:        ulid.Make().String(),
			Type:      activity.TypeMove,
			DealID:    "d",
			DealTitle: "d",
			CompanyID: testCompany,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := svc.RecentActivity(ctx, testCompany, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt), "newest first")

	entries, err = svc.RecentActivity(ctx, testCompany, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "non-positive limit falls back to the default")
}

package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"testing"
	"time"

	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompany = "01COMPANY"

func TestRender_RoundTrip(t *testing.T) {
	deals := []*deal.Deal{
		{
			ID:           "01A",
			Title:        "Acme renewal",
			Value:        12500.5,
			Stage:        deal.StageProposal,
			Priority:     deal.PriorityHigh,
			Probability:  60,
			ContactName:  sql.NullString{String: "Sam", Valid: true},
			ContactEmail: sql.NullString{String: "sam@acme.com", Valid: true},
			Notes:        sql.NullString{String: "wants a discount, maybe", Valid: true},
		},
		{
			ID:          "01B",
			Title:       "Tiny deal",
			Value:       99,
			Stage:       deal.StageNew,
			Priority:    deal.PriorityLow,
			Probability: 10,
		},
	}

	out, err := Render(deals)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"ID", "Title", "Value", "Stage", "Priority",
		"Contact Name", "Contact Email", "Notes", "Weighted Value",
	}, records[0])

	assert.Equal(t, []string{
		"01A", "Acme renewal", "12500.5", "PROPOSAL", "HIGH",
		"Sam", "sam@acme.com", "wants a discount, maybe", "7500.30",
	}, records[1])

	assert.Equal(t, []string{
		"01B", "Tiny deal", "99", "NEW", "LOW",
		"", "", "", "9.90",
	}, records[2])
}

func TestRender_EmptyPipelineStillHasHeader(t *testing.T) {
	out, err := Render(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ID", records[0][0])
}

func TestDeals_ExportsWholeTenant(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Deals())
	ctx := context.Background()

	now := time.Now().UTC()
	for _, d := range []*deal.Deal{
		{ID: "01X", Title: "First", Value: 100, Stage: deal.StageNew, Probability: 10, CompanyID: testCompany, CreatedAt: now, UpdatedAt: now},
		{ID: "01Y", Title: "Second", Value: 200, Stage: deal.StageWon, Probability: 100, CompanyID: testCompany, CreatedAt: now, UpdatedAt: now},
		{ID: "01Z", Title: "Elsewhere", Value: 300, Stage: deal.StageNew, Probability: 10, CompanyID: "01OTHER", CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, store.Deals().Create(ctx, d))
	}

	out, err := svc.Deals(ctx, testCompany)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus the tenant's two deals")

	ids := []string{records[1][0], records[2][0]}
	assert.ElementsMatch(t, []string{"01X", "01Y"}, ids)
	for _, rec := range records[1:] {
		assert.NotEqual(t, "01Z", rec[0], "other tenants never leak into an export")
	}
}

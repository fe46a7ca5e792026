// internal/service/export/csv.go
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"pipeline-service/internal/domain/deal"
)

// csvHeader fixes the column order of the deal export. weightedValue is
// value * probability / 100 formatted to 2 decimal places; the projection
// is deterministic and round-trippable.
var csvHeader = []string{
	"ID", "Title", "Value", "Stage", "Priority",
	"Contact Name", "Contact Email", "Notes", "Weighted Value",
}

// Service projects deals into flat CSV rows.
type Service struct {
	dealRepo deal.Repository
}

func NewService(dealRepo deal.Repository) *Service {
	return &Service{dealRepo: dealRepo}
}

// Deals exports every deal of the tenant as CSV.
func (s *Service) Deals(ctx context.Context, companyID string) ([]byte, error) {
	deals, err := s.dealRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return Render(deals)
}

// Render writes the deal rows to CSV.
func Render(deals []*deal.Deal) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, d := range deals {
		row := []string{
			d.ID,
			d.Title,
			strconv.FormatFloat(d.Value, 'f', -1, 64),
			string(d.Stage),
			string(d.Priority),
			d.ContactName.String,
			d.ContactEmail.String,
			d.Notes.String,
			strconv.FormatFloat(d.WeightedValue(), 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

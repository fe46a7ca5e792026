// internal/service/lead/attribution.go
package lead

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"pipeline-service/internal/domain/activity"
	campaigndom "pipeline-service/internal/domain/campaign"
	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/domain/lead"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// AttributionService ingests raw leads, classifies their originating
// channel and converts qualified leads into deals.
type AttributionService struct {
	leadRepo     lead.Repository
	campaignRepo campaigndom.Repository
	logger       *zap.Logger
}

func NewAttributionService(leadRepo lead.Repository, campaignRepo campaigndom.Repository, logger *zap.Logger) *AttributionService {
	return &AttributionService{
		leadRepo:     leadRepo,
		campaignRepo: campaignRepo,
		logger:       logger,
	}
}

// Create ingests a raw lead: classifies its source, matches a campaign
// by attribution token, scores it and persists.
func (s *AttributionService) Create(ctx context.Context, companyID string, req *lead.CreateLeadRequest) (*lead.Lead, error) {
	cls := ClassifySource(UTMParams{
		Source:   req.UTMSource,
		Medium:   req.UTMMedium,
		Campaign: req.UTMCampaign,
		Term:     req.UTMTerm,
		Content:  req.UTMContent,
	}, req.Referer)

	var campaignID sql.NullString
	code := req.CampaignCode
	if code == "" {
		code = req.UTMCampaign
	}
	if code != "" {
		c, err := s.campaignRepo.FindByCode(ctx, companyID, code)
		switch {
		case err == nil:
			campaignID = sql.NullString{String: c.ID, Valid: true}
			if err := s.campaignRepo.IncrementConversions(ctx, companyID, c.ID); err != nil {
				s.logger.Warn("failed to increment campaign conversions", zap.Error(err), zap.String("campaign_id", c.ID))
			}
		case !xerrors.Is(err, xerrors.ErrNotFound):
			return nil, fmt.Errorf("failed to match campaign: %w", err)
		}
	}

	l := &lead.Lead{
		ID:          ulid.Make().String(),
		Name:        nullString(req.Name),
		Email:       req.Email,
		Phone:       nullString(req.Phone),
		Company:     nullString(req.Company),
		JobTitle:    nullString(req.JobTitle),
		Message:     nullString(req.Message),
		Source:      cls.Source,
		Medium:      cls.Medium,
		UTMSource:   nullString(req.UTMSource),
		UTMMedium:   nullString(req.UTMMedium),
		UTMCampaign: nullString(req.UTMCampaign),
		UTMTerm:     nullString(req.UTMTerm),
		UTMContent:  nullString(req.UTMContent),
		Referer:     nullString(req.Referer),
		LandingPage: nullString(req.LandingPage),
		CampaignID:  campaignID,
		Status:      lead.StatusNew,
		Score:       InitialScore(req, cls.Source),
		CompanyID:   companyID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.leadRepo.Create(ctx, l); err != nil {
		s.logger.Error("failed to create lead", zap.Error(err))
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.logger.Info("lead created",
		zap.String("lead_id", l.ID),
		zap.String("source", string(l.Source)),
		zap.Int("score", l.Score),
	)
	return l, nil
}

// UpdateStatus moves a lead between the open statuses. CONVERTED cannot
// be set directly: only ConvertToDeal assigns it.
func (s *AttributionService) UpdateStatus(ctx context.Context, companyID, leadID string, status lead.Status) (*lead.Lead, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, xerrors.ErrValidation)
	}
	if status == lead.StatusConverted {
		return nil, fmt.Errorf("status CONVERTED is assigned by conversion only: %w", xerrors.ErrValidation)
	}
	return s.leadRepo.UpdateStatus(ctx, companyID, leadID, status)
}

// ConvertToDeal turns a qualified lead into a deal seeded with the
// lead's attribution. The lead-status flip and the deal creation are a
// single transaction: either both land or neither does.
func (s *AttributionService) ConvertToDeal(ctx context.Context, companyID, userID, leadID string, req *lead.ConvertLeadRequest) (*deal.Deal, error) {
	l, err := s.leadRepo.FindByID(ctx, companyID, leadID)
	if err != nil {
		return nil, err
	}
	if l.Status == lead.StatusConverted {
		return nil, fmt.Errorf("lead %s: %w", leadID, xerrors.ErrAlreadyConverted)
	}
	if len(req.Title) < 2 {
		return nil, fmt.Errorf("title must be at least 2 characters: %w", xerrors.ErrValidation)
	}
	if req.Value < 0 {
		return nil, fmt.Errorf("value must not be negative: %w", xerrors.ErrValidation)
	}

	stage := deal.StageNew
	if req.Stage != "" {
		stage = deal.Stage(req.Stage)
		if !stage.Valid() || stage.IsTerminal() {
			return nil, fmt.Errorf("cannot convert into stage %q: %w", req.Stage, xerrors.ErrValidation)
		}
	}

	now := time.Now().UTC()
	d := &deal.Deal{
		ID:           ulid.Make().String(),
		Title:        req.Title,
		Value:        req.Value,
		Currency:     "USD",
		Stage:        stage,
		Priority:     priorityForScore(l.Score),
		Probability:  stage.DefaultProbability(),
		Source:       string(l.Source),
		ContactName:  l.Name,
		ContactEmail: nullString(l.Email),
		ContactPhone: l.Phone,
		CompanyID:    companyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	l.Status = lead.StatusConverted
	l.ConvertedToDealID = sql.NullString{String: d.ID, Valid: true}
	l.ConvertedAt = sql.NullTime{Time: now, Valid: true}

	e := &activity.Entry{
		ID:        ulid.Make().String(),
		Type:      activity.TypeCreate,
		DealID:    d.ID,
		DealTitle: d.Title,
		UserID:    nullString(userID),
		CompanyID: companyID,
		CreatedAt: now,
	}

	if err := s.leadRepo.Convert(ctx, l, d, e); err != nil {
		s.logger.Error("lead conversion failed", zap.Error(err), zap.String("lead_id", leadID))
		return nil, err
	}

	s.logger.Info("lead converted to deal",
		zap.String("lead_id", leadID),
		zap.String("deal_id", d.ID),
		zap.String("priority", string(d.Priority)),
	)
	return d, nil
}

func (s *AttributionService) List(ctx context.Context, companyID string, f lead.ListLeadsFilters) ([]*lead.Lead, error) {
	return s.leadRepo.List(ctx, companyID, f)
}

// AnalyticsBySource groups the tenant's leads per channel with count and
// average score.
func (s *AttributionService) AnalyticsBySource(ctx context.Context, companyID string) ([]lead.SourceBreakdown, error) {
	leads, err := s.leadRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	type agg struct {
		count int
		score int
	}
	bySource := make(map[lead.Source]*agg)
	order := make([]lead.Source, 0)
	for _, l := range leads {
		a, ok := bySource[l.Source]
		if !ok {
			a = &agg{}
			bySource[l.Source] = a
			order = append(order, l.Source)
		}
		a.count++
		a.score += l.Score
	}

	out := make([]lead.SourceBreakdown, 0, len(order))
	for _, src := range order {
		a := bySource[src]
		out = append(out, lead.SourceBreakdown{
			Source:   src,
			Count:    a.count,
			AvgScore: int(math.Round(float64(a.score) / float64(a.count))),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// priorityForScore derives the seeded deal priority from the lead score.
func priorityForScore(score int) deal.Priority {
	switch {
	case score >= 70:
		return deal.PriorityHigh
	case score >= 40:
		return deal.PriorityMedium
	}
	return deal.PriorityLow
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

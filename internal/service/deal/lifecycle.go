// internal/service/deal/lifecycle.go
package deal

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/domain/deal"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// ActivityPublisher pushes an activity entry to connected dashboard
// clients. The websocket hub implements it; a nil publisher is allowed.
type ActivityPublisher interface {
	PublishActivity(companyID string, e *activity.Entry)
}

// LifecycleService owns the deal state machine: it validates and applies
// stage transitions, derives loss handling and stamps activity.
type LifecycleService struct {
	dealRepo     deal.Repository
	activityRepo activity.Repository
	publisher    ActivityPublisher
	logger       *zap.Logger

	// Per-deal locks serialize concurrent read-modify-write cycles on
	// the same deal id so the activity trail reflects a total order.
	locks sync.Map // deal id -> *sync.Mutex
}

func NewLifecycleService(dealRepo deal.Repository, activityRepo activity.Repository, publisher ActivityPublisher, logger *zap.Logger) *LifecycleService {
	return &LifecycleService{
		dealRepo:     dealRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *LifecycleService) lock(dealID string) func() {
	v, _ := s.locks.LoadOrStore(dealID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Create validates the input and persists a new deal, appending its
// CREATE activity entry.
func (s *LifecycleService) Create(ctx context.Context, companyID, userID string, req *deal.CreateDealRequest) (*deal.Deal, error) {
	if len(req.Title) < 2 {
		return nil, fmt.Errorf("title must be at least 2 characters: %w", xerrors.ErrValidation)
	}
	if req.Value < 0 {
		return nil, fmt.Errorf("value must not be negative: %w", xerrors.ErrValidation)
	}

	stage := req.Stage
	if stage == "" {
		stage = deal.StageNew
	}
	if !stage.Valid() {
		return nil, fmt.Errorf("unknown stage %q: %w", req.Stage, xerrors.ErrValidation)
	}

	priority := req.Priority
	if priority == "" {
		priority = deal.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("unknown priority %q: %w", req.Priority, xerrors.ErrValidation)
	}

	probability := stage.DefaultProbability()
	if req.Probability != nil {
		probability = clampProbability(*req.Probability)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	source := req.Source
	if source == "" {
		source = "Unknown"
	}

	now := time.Now().UTC()
	d := &deal.Deal{
		ID:            ulid.Make().String(),
		Title:         req.Title,
		Value:         req.Value,
		Currency:      currency,
		Stage:         stage,
		Priority:      priority,
		Probability:   probability,
		Source:        source,
		ContactName:   nullString(req.ContactName),
		ContactEmail:  nullString(req.ContactEmail),
		ContactPhone:  nullString(req.ContactPhone),
		Notes:         nullString(req.Notes),
		Tags:          pq.StringArray(req.Tags),
		OwnerID:       nullString(req.OwnerID),
		CompanyID:     companyID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.ExpectedClose != nil {
		d.ExpectedClose = sql.NullTime{Time: *req.ExpectedClose, Valid: true}
	}

	if err := s.dealRepo.Create(ctx, d); err != nil {
		s.logger.Error("failed to create deal", zap.Error(err))
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	s.record(ctx, companyID, userID, activity.TypeCreate, d, "", "")

	s.logger.Info("deal created",
		zap.String("deal_id", d.ID),
		zap.String("company_id", companyID),
		zap.Float64("value", d.Value),
	)
	return d, nil
}

// MoveStage applies a stage transition. Moving into WON or LOST is
// allowed from any open stage; moving out of a closed stage is rejected.
// A same-stage move is a no-op: no activity entry, updated_at untouched.
func (s *LifecycleService) MoveStage(ctx context.Context, companyID, userID, dealID string, newStage deal.Stage) (*deal.Deal, error) {
	if !newStage.Valid() {
		return nil, fmt.Errorf("unknown stage %q: %w", newStage, xerrors.ErrValidation)
	}

	unlock := s.lock(dealID)
	defer unlock()

	d, err := s.dealRepo.FindByID(ctx, companyID, dealID)
	if err != nil {
		return nil, err
	}

	if d.Stage == newStage {
		return d, nil
	}
	if d.Stage.IsTerminal() {
		return nil, fmt.Errorf("deal %s is %s: %w", dealID, d.Stage, xerrors.ErrInvalidTransition)
	}

	fromStage := d.Stage
	loadedAt := d.UpdatedAt

	d.Stage = newStage
	d.Probability = newStage.DefaultProbability()
	d.UpdatedAt = time.Now().UTC()

	if err := s.dealRepo.Update(ctx, d, loadedAt); err != nil {
		return nil, err
	}

	actType := activity.TypeMove
	switch newStage {
	case deal.StageWon:
		actType = activity.TypeWin
	case deal.StageLost:
		actType = activity.TypeLose
	}
	s.record(ctx, companyID, userID, actType, d, fromStage, newStage)

	s.logger.Info("deal stage moved",
		zap.String("deal_id", d.ID),
		zap.String("from", string(fromStage)),
		zap.String("to", string(newStage)),
	)
	return d, nil
}

// Update applies a partial field update. A patch moving the deal to LOST
// must carry a lost reason or the whole write is rejected.
func (s *LifecycleService) Update(ctx context.Context, companyID, userID, dealID string, req *deal.UpdateDealRequest) (*deal.Deal, error) {
	unlock := s.lock(dealID)
	defer unlock()

	d, err := s.dealRepo.FindByID(ctx, companyID, dealID)
	if err != nil {
		return nil, err
	}
	loadedAt := d.UpdatedAt

	if req.Stage != nil {
		if !req.Stage.Valid() {
			return nil, fmt.Errorf("unknown stage %q: %w", *req.Stage, xerrors.ErrValidation)
		}
		if *req.Stage != d.Stage && d.Stage.IsTerminal() {
			return nil, fmt.Errorf("deal %s is %s: %w", dealID, d.Stage, xerrors.ErrInvalidTransition)
		}
		if *req.Stage == deal.StageLost && req.LostReason == nil && !d.LostReason.Valid {
			return nil, fmt.Errorf("lost reason is required when closing a deal as LOST: %w", xerrors.ErrValidation)
		}
	}
	if req.LostReason != nil && !req.LostReason.Valid() {
		return nil, fmt.Errorf("unknown lost reason %q: %w", *req.LostReason, xerrors.ErrValidation)
	}
	if req.Title != nil && len(*req.Title) < 2 {
		return nil, fmt.Errorf("title must be at least 2 characters: %w", xerrors.ErrValidation)
	}
	if req.Value != nil && *req.Value < 0 {
		return nil, fmt.Errorf("value must not be negative: %w", xerrors.ErrValidation)
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return nil, fmt.Errorf("unknown priority %q: %w", *req.Priority, xerrors.ErrValidation)
	}

	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Value != nil {
		d.Value = *req.Value
	}
	if req.Stage != nil && *req.Stage != d.Stage {
		d.Stage = *req.Stage
		// Stage change re-defaults probability unless the patch sets it.
		d.Probability = req.Stage.DefaultProbability()
	}
	if req.Probability != nil {
		d.Probability = clampProbability(*req.Probability)
	}
	if req.Priority != nil {
		d.Priority = *req.Priority
	}
	if req.LostReason != nil {
		d.LostReason = sql.NullString{String: string(*req.LostReason), Valid: true}
	}
	if req.ExpectedClose != nil {
		d.ExpectedClose = sql.NullTime{Time: *req.ExpectedClose, Valid: true}
	}
	if req.ContactName != nil {
		d.ContactName = nullString(*req.ContactName)
	}
	if req.ContactEmail != nil {
		d.ContactEmail = nullString(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		d.ContactPhone = nullString(*req.ContactPhone)
	}
	if req.Notes != nil {
		d.Notes = nullString(*req.Notes)
	}
	if req.Tags != nil {
		d.Tags = pq.StringArray(req.Tags)
	}
	if req.OwnerID != nil {
		d.OwnerID = nullString(*req.OwnerID)
	}

	d.UpdatedAt = time.Now().UTC()

	if err := s.dealRepo.Update(ctx, d, loadedAt); err != nil {
		return nil, err
	}

	s.record(ctx, companyID, userID, activity.TypeUpdate, d, "", "")
	return d, nil
}

// Delete hard-removes a deal. The DELETE activity entry is appended
// first and weak-references the deal, so it survives the removal.
func (s *LifecycleService) Delete(ctx context.Context, companyID, userID, dealID string) error {
	unlock := s.lock(dealID)
	defer unlock()

	d, err := s.dealRepo.FindByID(ctx, companyID, dealID)
	if err != nil {
		return err
	}

	s.record(ctx, companyID, userID, activity.TypeDelete, d, "", "")

	if err := s.dealRepo.Delete(ctx, companyID, dealID); err != nil {
		return err
	}
	s.locks.Delete(dealID)

	s.logger.Info("deal deleted", zap.String("deal_id", dealID), zap.String("company_id", companyID))
	return nil
}

func (s *LifecycleService) Get(ctx context.Context, companyID, dealID string) (*deal.Deal, error) {
	return s.dealRepo.FindByID(ctx, companyID, dealID)
}

// List returns all deals for the tenant ordered by last activity.
func (s *LifecycleService) List(ctx context.Context, companyID string) ([]*deal.Deal, error) {
	return s.dealRepo.ListByCompany(ctx, companyID)
}

// TopDeals returns the highest-value open deals.
func (s *LifecycleService) TopDeals(ctx context.Context, companyID string, limit int) ([]*deal.Deal, error) {
	deals, err := s.dealRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	open := make([]*deal.Deal, 0, len(deals))
	for _, d := range deals {
		if !d.Stage.IsTerminal() {
			open = append(open, d)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Value > open[j].Value })

	if limit > 0 && len(open) > limit {
		open = open[:limit]
	}
	return open, nil
}

func (s *LifecycleService) record(ctx context.Context, companyID, userID string, t activity.Type, d *deal.Deal, from, to deal.Stage) {
	e := &activity.Entry{
		ID:        ulid.Make().String(),
		Type:      t,
		DealID:    d.ID,
		DealTitle: d.Title,
		UserID:    nullString(userID),
		CompanyID: companyID,
		CreatedAt: time.Now().UTC(),
	}
	if from != "" {
		e.FromStage = sql.NullString{String: string(from), Valid: true}
	}
	if to != "" {
		e.ToStage = sql.NullString{String: string(to), Valid: true}
	}

	if err := s.activityRepo.Append(ctx, e); err != nil {
		// The activity feed is best-effort; the deal write already landed.
		s.logger.Warn("failed to append activity entry", zap.Error(err), zap.String("deal_id", d.ID))
		return
	}
	if s.publisher != nil {
		s.publisher.PublishActivity(companyID, e)
	}
}

func clampProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

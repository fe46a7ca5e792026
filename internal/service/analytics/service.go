// internal/service/analytics/service.go
package analytics

import (
	"context"
	"sync"

	"pipeline-service/internal/cache"
	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/domain/lead"
	"pipeline-service/internal/domain/user"

	"go.uber.org/zap"
)

// Service is the read-side aggregation engine. It never writes to the
// store; every metric is derived from a snapshot of the tenant's deals,
// leads and activity at the time of the call. Sub-aggregates may be
// computed against snapshots taken milliseconds apart; this is a
// dashboard, not a ledger.
type Service struct {
	dealRepo     deal.Repository
	leadRepo     lead.Repository
	activityRepo activity.Repository
	userRepo     user.Repository
	cache        *cache.Client
	logger       *zap.Logger

	// monthlyTarget is the configured revenue goal feeding goalProgress.
	monthlyTarget float64
}

func NewService(
	dealRepo deal.Repository,
	leadRepo lead.Repository,
	activityRepo activity.Repository,
	userRepo user.Repository,
	cacheClient *cache.Client,
	monthlyTarget float64,
	logger *zap.Logger,
) *Service {
	return &Service{
		dealRepo:      dealRepo,
		leadRepo:      leadRepo,
		activityRepo:  activityRepo,
		userRepo:      userRepo,
		cache:         cacheClient,
		monthlyTarget: monthlyTarget,
		logger:        logger,
	}
}

// snapshot is the full read set the dashboard aggregates over. The four
// fetches are independent and run concurrently.
type snapshot struct {
	deals         []*deal.Deal
	leads         []*lead.Lead
	userNames     map[string]string
	activityCount int64
}

func (s *Service) loadSnapshot(ctx context.Context, companyID string, activitySince func() (int64, error)) (*snapshot, error) {
	var (
		snap snapshot
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		deals, err := s.dealRepo.ListByCompany(ctx, companyID)
		if err != nil {
			fail(err)
			return
		}
		snap.deals = deals
	}()
	go func() {
		defer wg.Done()
		leads, err := s.leadRepo.ListByCompany(ctx, companyID)
		if err != nil {
			fail(err)
			return
		}
		snap.leads = leads
	}()
	go func() {
		defer wg.Done()
		names, err := s.userRepo.NamesByID(ctx, companyID)
		if err != nil {
			fail(err)
			return
		}
		snap.userNames = names
	}()
	go func() {
		defer wg.Done()
		n, err := activitySince()
		if err != nil {
			fail(err)
			return
		}
		snap.activityCount = n
	}()
	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}
	return &snap, nil
}

package memory

import (
	"context"
	"time"

	"pipeline-service/internal/domain/activity"
)

type ActivityRepository struct {
	s *Store
}

func (r *ActivityRepository) Append(_ context.Context, e *activity.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.activities = append(r.s.activities, &cp)
	return nil
}

// ListRecent walks the append-only log backwards: appends are already
// chronological, so reverse order is newest-first.
func (r *ActivityRepository) ListRecent(_ context.Context, companyID string, limit int) ([]*activity.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var entries []*activity.Entry
	for i := len(r.s.activities) - 1; i >= 0; i-- {
		e := r.s.activities[i]
		if e.CompanyID != companyID {
			continue
		}
		cp := *e
		entries = append(entries, &cp)
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func (r *ActivityRepository) CountSince(_ context.Context, companyID string, since time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, e := range r.s.activities {
		if e.CompanyID == companyID && !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

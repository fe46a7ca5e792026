// internal/domain/activity/repository.go
package activity

import (
	"context"
	"time"
)

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	// ListRecent returns the newest entries for the tenant, newest first.
	ListRecent(ctx context.Context, companyID string, limit int) ([]*Entry, error)
	CountSince(ctx context.Context, companyID string, since time.Time) (int64, error)
}

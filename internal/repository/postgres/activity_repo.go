// internal/repository/postgres/activity_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"pipeline-service/internal/domain/activity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, e *activity.Entry) error {
	if err := insertActivity(ctx, r.db, e); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListRecent(ctx context.Context, companyID string, limit int) ([]*activity.Entry, error) {
	query := `
		SELECT id, type, deal_id, deal_title, from_stage, to_stage, user_id, company_id, created_at
		FROM activities
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var entries []*activity.Entry
	for rows.Next() {
		var e activity.Entry
		if err := rows.Scan(&e.ID, &e.Type, &e.DealID, &e.DealTitle, &e.FromStage, &e.ToStage, &e.UserID, &e.CompanyID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return entries, nil
}

func (r *ActivityRepository) CountSince(ctx context.Context, companyID string, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE company_id = $1 AND created_at >= $2`,
		companyID, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return n, nil
}

func insertActivity(ctx context.Context, q execer, e *activity.Entry) error {
	_, err := q.Exec(ctx, `
		INSERT INTO activities (id, type, deal_id, deal_title, from_stage, to_stage, user_id, company_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Type, e.DealID, e.DealTitle, e.FromStage, e.ToStage, e.UserID, e.CompanyID, e.CreatedAt)
	return err
}

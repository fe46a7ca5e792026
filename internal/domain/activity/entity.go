// internal/domain/activity/entity.go
package activity

import (
	"database/sql"
	"time"
)

type Type string

const (
	TypeCreate Type = "CREATE"
	TypeMove   Type = "MOVE"
	TypeUpdate Type = "UPDATE"
	TypeDelete Type = "DELETE"
	TypeWin    Type = "WIN"
	TypeLose   Type = "LOSE"
)

// Entry is an append-only record of a pipeline event. It weak-references
// the deal: entries survive deal deletion.
type Entry struct {
	ID        string         `json:"id" db:"id"`
	Type      Type           `json:"type" db:"type"`
	DealID    string         `json:"deal_id" db:"deal_id"`
	DealTitle string         `json:"deal_title" db:"deal_title"`
	FromStage sql.NullString `json:"from_stage,omitempty" db:"from_stage"`
	ToStage   sql.NullString `json:"to_stage,omitempty" db:"to_stage"`
	UserID    sql.NullString `json:"user_id,omitempty" db:"user_id"`
	CompanyID string         `json:"company_id" db:"company_id"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

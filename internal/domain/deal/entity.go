// internal/domain/deal/entity.go
package deal

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Stage string

const (
	StageNew         Stage = "NEW"
	StageContacted   Stage = "CONTACTED"
	StageProposal    Stage = "PROPOSAL"
	StageNegotiation Stage = "NEGOTIATION"
	StageWon         Stage = "WON"
	StageLost        Stage = "LOST"
)

// IsTerminal reports whether the stage is closed. Closed deals never
// transition out (they can only be reopened by an explicit reset, which
// is outside the lifecycle engine's contract).
func (s Stage) IsTerminal() bool {
	return s == StageWon || s == StageLost
}

// Valid reports whether s is a member of the stage enum.
func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageContacted, StageProposal, StageNegotiation, StageWon, StageLost:
		return true
	}
	return false
}

// DefaultProbability returns the close probability assigned to a deal
// entering the stage, unless the caller overrides it.
func (s Stage) DefaultProbability() int {
	switch s {
	case StageNew:
		return 10
	case StageContacted:
		return 30
	case StageProposal:
		return 60
	case StageNegotiation:
		return 80
	case StageWon:
		return 100
	case StageLost:
		return 0
	}
	return 10
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type LostReason string

const (
	LostReasonPrice       LostReason = "PRICE"
	LostReasonCompetition LostReason = "COMPETITION"
	LostReasonTiming      LostReason = "TIMING"
	LostReasonFeatures    LostReason = "FEATURES"
	LostReasonGhosted     LostReason = "GHOSTED"
)

func (r LostReason) Valid() bool {
	switch r {
	case LostReasonPrice, LostReasonCompetition, LostReasonTiming, LostReasonFeatures, LostReasonGhosted:
		return true
	}
	return false
}

type Deal struct {
	ID    string  `json:"id" db:"id"`
	Title string  `json:"title" db:"title"`
	Value float64 `json:"value" db:"value"`

	Currency    string   `json:"currency" db:"currency"`
	Stage       Stage    `json:"stage" db:"stage"`
	Priority    Priority `json:"priority" db:"priority"`
	Probability int      `json:"probability" db:"probability"`

	Source     string         `json:"source" db:"source"`
	LostReason sql.NullString `json:"lost_reason,omitempty" db:"lost_reason"`

	ExpectedClose sql.NullTime `json:"expected_close,omitempty" db:"expected_close"`

	// Contact info
	ContactName  sql.NullString `json:"contact_name,omitempty" db:"contact_name"`
	ContactEmail sql.NullString `json:"contact_email,omitempty" db:"contact_email"`
	ContactPhone sql.NullString `json:"contact_phone,omitempty" db:"contact_phone"`

	Notes sql.NullString `json:"notes,omitempty" db:"notes"`
	Tags  pq.StringArray `json:"tags,omitempty" db:"tags"`

	// Ownership
	OwnerID   sql.NullString `json:"owner_id,omitempty" db:"owner_id"`
	CompanyID string         `json:"company_id" db:"company_id"`

	// Timestamps. UpdatedAt doubles as last-activity: every mutation,
	// including stage moves, refreshes it.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WeightedValue is the deal value discounted by its close probability.
func (d *Deal) WeightedValue() float64 {
	return d.Value * float64(d.Probability) / 100
}

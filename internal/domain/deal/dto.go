// internal/domain/deal/dto.go
package deal

import "time"

type CreateDealRequest struct {
	Title string  `json:"title" binding:"required,min=2,max=255"`
	Value float64 `json:"value" binding:"min=0"`

	Stage       Stage    `json:"stage"`
	Priority    Priority `json:"priority"`
	Probability *int     `json:"probability" binding:"omitempty,min=0,max=100"`

	Currency string `json:"currency"`
	Source   string `json:"source"`

	ExpectedClose *time.Time `json:"expected_close"`

	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`

	Notes string   `json:"notes"`
	Tags  []string `json:"tags"`

	OwnerID string `json:"owner_id"`
}

type UpdateDealRequest struct {
	Title *string  `json:"title" binding:"omitempty,min=2,max=255"`
	Value *float64 `json:"value" binding:"omitempty,min=0"`

	Stage       *Stage      `json:"stage"`
	Priority    *Priority   `json:"priority"`
	Probability *int        `json:"probability" binding:"omitempty,min=0,max=100"`
	LostReason  *LostReason `json:"lost_reason"`

	ExpectedClose *time.Time `json:"expected_close"`

	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone *string `json:"contact_phone"`

	Notes *string  `json:"notes"`
	Tags  []string `json:"tags"`

	OwnerID *string `json:"owner_id"`
}

type MoveStageRequest struct {
	Stage Stage `json:"stage" binding:"required"`
}

// internal/domain/campaign/entity.go
package campaign

import (
	"database/sql"
	"time"
)

type Platform string

const (
	PlatformFacebook  Platform = "FACEBOOK"
	PlatformGoogle    Platform = "GOOGLE"
	PlatformLinkedIn  Platform = "LINKEDIN"
	PlatformInstagram Platform = "INSTAGRAM"
	PlatformTikTok    Platform = "TIKTOK"
	PlatformEmail     Platform = "EMAIL"
	PlatformYouTube   Platform = "YOUTUBE"
	PlatformOther     Platform = "OTHER"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusPaused    Status = "PAUSED"
	StatusCompleted Status = "COMPLETED"
)

type Campaign struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Upper-cased attribution token, unique per tenant. Leads carrying it
	// (via campaign_code or utm_campaign) attach to this campaign.
	Code string `json:"code" db:"code"`

	Platform    Platform       `json:"platform" db:"platform"`
	Description sql.NullString `json:"description,omitempty" db:"description"`

	Budget sql.NullFloat64 `json:"budget,omitempty" db:"budget"`
	Spend  float64         `json:"spend" db:"spend"`

	Impressions int64 `json:"impressions" db:"impressions"`
	Clicks      int64 `json:"clicks" db:"clicks"`
	Conversions int64 `json:"conversions" db:"conversions"`

	StartDate sql.NullTime `json:"start_date,omitempty" db:"start_date"`
	EndDate   sql.NullTime `json:"end_date,omitempty" db:"end_date"`

	Status    Status    `json:"status" db:"status"`
	CompanyID string    `json:"company_id" db:"company_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

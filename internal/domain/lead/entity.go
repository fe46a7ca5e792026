// internal/domain/lead/entity.go
package lead

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusNew       Status = "NEW"
	StatusContacted Status = "CONTACTED"
	StatusQualified Status = "QUALIFIED"
	StatusConverted Status = "CONVERTED"
	StatusLost      Status = "LOST"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost:
		return true
	}
	return false
}

// Source is the closed channel enum a raw lead is attributed to.
type Source string

const (
	SourceFacebook  Source = "FACEBOOK"
	SourceGoogle    Source = "GOOGLE"
	SourceLinkedIn  Source = "LINKEDIN"
	SourceInstagram Source = "INSTAGRAM"
	SourceTikTok    Source = "TIKTOK"
	SourceEmail     Source = "EMAIL"
	SourceYouTube   Source = "YOUTUBE"
	SourceDirect    Source = "DIRECT"
	SourceReferral  Source = "REFERRAL"
	SourceOther     Source = "OTHER"
)

// Medium qualifies how the channel delivered the lead.
type Medium string

const (
	MediumCPC       Medium = "cpc"
	MediumOrganic   Medium = "organic"
	MediumSocial    Medium = "social"
	MediumEmail     Medium = "email"
	MediumReferral  Medium = "referral"
	MediumDisplay   Medium = "display"
	MediumVideo     Medium = "video"
	MediumAffiliate Medium = "affiliate"
	MediumNone      Medium = "none"
)

type Lead struct {
	ID    string         `json:"id" db:"id"`
	Name  sql.NullString `json:"name,omitempty" db:"name"`
	Email string         `json:"email" db:"email"`
	Phone sql.NullString `json:"phone,omitempty" db:"phone"`

	Company  sql.NullString `json:"company,omitempty" db:"company"`
	JobTitle sql.NullString `json:"job_title,omitempty" db:"job_title"`
	Message  sql.NullString `json:"message,omitempty" db:"message"`

	// Attribution
	Source      Source         `json:"source" db:"source"`
	Medium      Medium         `json:"medium" db:"medium"`
	UTMSource   sql.NullString `json:"utm_source,omitempty" db:"utm_source"`
	UTMMedium   sql.NullString `json:"utm_medium,omitempty" db:"utm_medium"`
	UTMCampaign sql.NullString `json:"utm_campaign,omitempty" db:"utm_campaign"`
	UTMTerm     sql.NullString `json:"utm_term,omitempty" db:"utm_term"`
	UTMContent  sql.NullString `json:"utm_content,omitempty" db:"utm_content"`
	Referer     sql.NullString `json:"referer,omitempty" db:"referer"`
	LandingPage sql.NullString `json:"landing_page,omitempty" db:"landing_page"`
	CampaignID  sql.NullString `json:"campaign_id,omitempty" db:"campaign_id"`

	Status Status `json:"status" db:"status"`
	Score  int    `json:"score" db:"score"`

	// Conversion link. Once set the lead is CONVERTED and tied 1:1 to the
	// created deal; a second conversion attempt is rejected.
	ConvertedToDealID sql.NullString `json:"converted_to_deal_id,omitempty" db:"converted_to_deal_id"`
	ConvertedAt       sql.NullTime   `json:"converted_at,omitempty" db:"converted_at"`

	CompanyID string    `json:"company_id" db:"company_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

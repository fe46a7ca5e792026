// internal/domain/lead/dto.go
package lead

type CreateLeadRequest struct {
	Email string `json:"email" binding:"required,email"`

	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
	Message  string `json:"message"`

	// UTM & tracking (auto-detected when present)
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMTerm     string `json:"utm_term"`
	UTMContent  string `json:"utm_content"`
	Referer     string `json:"referer"`
	LandingPage string `json:"landing_page"`

	// Campaign attribution token, matched against Campaign.code
	CampaignCode string `json:"campaign_code"`
}

type UpdateLeadStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// ConvertLeadRequest seeds the deal created from a qualified lead.
type ConvertLeadRequest struct {
	Title string  `json:"title" binding:"required,min=2,max=255"`
	Value float64 `json:"value" binding:"min=0"`
	Stage string  `json:"stage"`
}

type ListLeadsFilters struct {
	Source     string `form:"source"`
	Status     string `form:"status"`
	CampaignID string `form:"campaign_id"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// SourceBreakdown is the per-channel aggregate used by lead analytics.
type SourceBreakdown struct {
	Source   Source `json:"source"`
	Count    int    `json:"count"`
	AvgScore int    `json:"avg_score"`
}

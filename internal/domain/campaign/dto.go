// internal/domain/campaign/dto.go
package campaign

// Metrics is the per-campaign cost/performance view.
type Metrics struct {
	CampaignID     string   `json:"campaign_id"`
	Name           string   `json:"name"`
	Code           string   `json:"code"`
	Platform       Platform `json:"platform"`
	LeadCount      int      `json:"lead_count"`
	ConvertedLeads int      `json:"converted_leads"`
	AvgLeadScore   int      `json:"avg_lead_score"`
	Budget         float64  `json:"budget"`
	Spend          float64  `json:"spend"`

	// CostPerLead is spend / lead count, only defined when both are
	// positive; nil otherwise, never a division by zero.
	CostPerLead *float64 `json:"cost_per_lead"`
}

// Rollup aggregates all campaigns of a tenant.
type Rollup struct {
	ActiveCount int     `json:"active_count"`
	TotalBudget float64 `json:"total_budget"`
	TotalLeads  int     `json:"total_leads"`
	TotalSpend  float64 `json:"total_spend"`
}

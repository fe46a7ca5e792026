// internal/handlers/campaign/campaign_handler.go
package campaign

import (
	"net/http"

	"pipeline-service/internal/middleware"
	"pipeline-service/internal/pkg/response"
	service "pipeline-service/internal/service/campaign"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignService *service.CostService
}

func NewCampaignHandler(campaignService *service.CostService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// ListCampaigns returns the company's marketing campaigns
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	campaigns, err := h.campaignService.List(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, "failed to list campaigns", err)
		return
	}

	response.Success(c, http.StatusOK, "campaigns retrieved successfully", campaigns)
}

// CampaignMetrics returns cost and lead effectiveness for one campaign
func (h *CampaignHandler) CampaignMetrics(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	metrics, err := h.campaignService.Metrics(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		response.FromError(c, "failed to compute campaign metrics", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign metrics retrieved successfully", metrics)
}

// CampaignRollup returns the portfolio-level totals
func (h *CampaignHandler) CampaignRollup(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	rollup, err := h.campaignService.Rollup(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, "failed to compute campaign rollup", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign rollup retrieved successfully", rollup)
}

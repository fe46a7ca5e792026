// internal/handlers/analytics/analytics_handler.go
package analytics

import (
	"net/http"
	"strconv"

	"pipeline-service/internal/middleware"
	"pipeline-service/internal/pkg/response"
	service "pipeline-service/internal/service/analytics"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *service.Service
}

func NewAnalyticsHandler(analyticsService *service.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// PipelineStats returns headline pipeline numbers
func (h *AnalyticsHandler) PipelineStats(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	stats, err := h.analyticsService.PipelineStats(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, "failed to compute pipeline stats", err)
		return
	}

	response.Success(c, http.StatusOK, "pipeline stats retrieved successfully", stats)
}

// SalesFunnel returns deal counts per stage in funnel order
func (h *AnalyticsHandler) SalesFunnel(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	funnel, err := h.analyticsService.SalesFunnel(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, "failed to compute sales funnel", err)
		return
	}

	response.Success(c, http.StatusOK, "sales funnel retrieved successfully", funnel)
}

// Dashboard returns the full aggregated dashboard for the company
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	dashboard, err := h.analyticsService.Dashboard(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, "failed to build dashboard", err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard retrieved successfully", dashboard)
}

// BoardStats returns per-stage health for the kanban board
func (h *AnalyticsHandler) BoardStats(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	stats, err := h.analyticsService.BoardStats(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, "failed to compute board stats", err)
		return
	}

	response.Success(c, http.StatusOK, "board stats retrieved successfully", stats)
}

// RecentActivity returns the latest pipeline events
func (h *AnalyticsHandler) RecentActivity(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.analyticsService.RecentActivity(c.Request.Context(), companyID, limit)
	if err != nil {
		response.FromError(c, "failed to list recent activity", err)
		return
	}

	response.Success(c, http.StatusOK, "recent activity retrieved successfully", entries)
}

// internal/handlers/lead/lead_handler.go
package lead

import (
	"net/http"

	leaddom "pipeline-service/internal/domain/lead"
	"pipeline-service/internal/middleware"
	"pipeline-service/internal/pkg/response"
	service "pipeline-service/internal/service/lead"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadService *service.AttributionService
}

func NewLeadHandler(leadService *service.AttributionService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// CreateLead captures a lead, classifies its source and scores it
func (h *LeadHandler) CreateLead(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var req leaddom.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.leadService.Create(c.Request.Context(), companyID, &req)
	if err != nil {
		response.FromError(c, "failed to create lead", err)
		return
	}

	response.Success(c, http.StatusCreated, "lead created successfully", result)
}

// ListLeads returns leads with optional source/status/campaign filters
func (h *LeadHandler) ListLeads(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var filters leaddom.ListLeadsFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	leads, err := h.leadService.List(c.Request.Context(), companyID, filters)
	if err != nil {
		response.FromError(c, "failed to list leads", err)
		return
	}

	response.Success(c, http.StatusOK, "leads retrieved successfully", leads)
}

// UpdateStatus moves a lead through its qualification states
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var req leaddom.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.leadService.UpdateStatus(c.Request.Context(), companyID, c.Param("id"), req.Status)
	if err != nil {
		response.FromError(c, "failed to update lead status", err)
		return
	}

	response.Success(c, http.StatusOK, "lead status updated successfully", result)
}

// ConvertLead turns a lead into a pipeline deal
func (h *LeadHandler) ConvertLead(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)
	userID, _ := middleware.GetUserID(c)

	var req leaddom.ConvertLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.leadService.ConvertToDeal(c.Request.Context(), companyID, userID, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to convert lead", err)
		return
	}

	response.Success(c, http.StatusCreated, "lead converted successfully", result)
}

// SourceAnalytics aggregates lead counts and scores per channel
func (h *LeadHandler) SourceAnalytics(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	breakdown, err := h.leadService.AnalyticsBySource(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, "failed to aggregate lead sources", err)
		return
	}

	response.Success(c, http.StatusOK, "lead source analytics retrieved successfully", breakdown)
}

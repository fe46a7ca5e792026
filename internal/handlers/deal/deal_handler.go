// internal/handlers/deal/deal_handler.go
package deal

import (
	"net/http"
	"time"

	dealdom "pipeline-service/internal/domain/deal"
	"pipeline-service/internal/middleware"
	"pipeline-service/internal/pkg/response"
	service "pipeline-service/internal/service/deal"
	"pipeline-service/internal/service/export"
	"pipeline-service/internal/service/scoring"

	"github.com/gin-gonic/gin"
)

// dealView is a deal annotated with its health read-out for the board.
type dealView struct {
	*dealdom.Deal
	Health scoring.Result `json:"health"`
}

func withHealth(deals []*dealdom.Deal) []dealView {
	now := time.Now().UTC()
	out := make([]dealView, 0, len(deals))
	for _, d := range deals {
		out = append(out, dealView{Deal: d, Health: scoring.Score(d, now)})
	}
	return out
}

type DealHandler struct {
	dealService   *service.LifecycleService
	exportService *export.Service
}

func NewDealHandler(dealService *service.LifecycleService, exportService *export.Service) *DealHandler {
	return &DealHandler{
		dealService:   dealService,
		exportService: exportService,
	}
}

// CreateDeal creates a new deal in the pipeline
func (h *DealHandler) CreateDeal(c *gin.Context) {
	companyID, userID := identity(c)

	var req dealdom.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.dealService.Create(c.Request.Context(), companyID, userID, &req)
	if err != nil {
		response.FromError(c, "failed to create deal", err)
		return
	}

	response.Success(c, http.StatusCreated, "deal created successfully", result)
}

// ListDeals returns all deals for the company, most recently updated first
func (h *DealHandler) ListDeals(c *gin.Context) {
	companyID, _ := identity(c)

	deals, err := h.dealService.List(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, "failed to list deals", err)
		return
	}

	response.Success(c, http.StatusOK, "deals retrieved successfully", withHealth(deals))
}

// GetDeal returns a single deal by ID
func (h *DealHandler) GetDeal(c *gin.Context) {
	companyID, _ := identity(c)

	result, err := h.dealService.Get(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		response.FromError(c, "failed to get deal", err)
		return
	}

	response.Success(c, http.StatusOK, "deal retrieved successfully", dealView{Deal: result, Health: scoring.Score(result, time.Now().UTC())})
}

// UpdateDeal applies a partial update to a deal
func (h *DealHandler) UpdateDeal(c *gin.Context) {
	companyID, userID := identity(c)

	var req dealdom.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.dealService.Update(c.Request.Context(), companyID, userID, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update deal", err)
		return
	}

	response.Success(c, http.StatusOK, "deal updated successfully", result)
}

// MoveStage transitions a deal to a new pipeline stage
func (h *DealHandler) MoveStage(c *gin.Context) {
	companyID, userID := identity(c)

	var req dealdom.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.dealService.MoveStage(c.Request.Context(), companyID, userID, c.Param("id"), req.Stage)
	if err != nil {
		response.FromError(c, "failed to move deal", err)
		return
	}

	response.Success(c, http.StatusOK, "deal moved successfully", result)
}

// DeleteDeal removes a deal from the pipeline
func (h *DealHandler) DeleteDeal(c *gin.Context) {
	companyID, userID := identity(c)

	if err := h.dealService.Delete(c.Request.Context(), companyID, userID, c.Param("id")); err != nil {
		response.FromError(c, "failed to delete deal", err)
		return
	}

	response.Success(c, http.StatusOK, "deal deleted successfully", nil)
}

// TopDeals returns the highest-value open deals
func (h *DealHandler) TopDeals(c *gin.Context) {
	companyID, _ := identity(c)

	deals, err := h.dealService.TopDeals(c.Request.Context(), companyID, 5)
	if err != nil {
		response.FromError(c, "failed to list top deals", err)
		return
	}

	response.Success(c, http.StatusOK, "top deals retrieved successfully", withHealth(deals))
}

// ExportDeals streams the company's deals as a CSV download
func (h *DealHandler) ExportDeals(c *gin.Context) {
	companyID, _ := identity(c)

	data, err := h.exportService.Deals(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, "failed to export deals", err)
		return
	}

	filename := "deals-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func identity(c *gin.Context) (companyID, userID string) {
	companyID, _ = middleware.GetCompanyID(c)
	userID, _ = middleware.GetUserID(c)
	return companyID, userID
}

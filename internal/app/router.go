// internal/app/router.go
package app

import (
	analyticsHandler "pipeline-service/internal/handlers/analytics"
	campaignHandler "pipeline-service/internal/handlers/campaign"
	dealHandler "pipeline-service/internal/handlers/deal"
	leadHandler "pipeline-service/internal/handlers/lead"
	wsHandler "pipeline-service/internal/handlers/websocket"
	"pipeline-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	DealHandler      *dealHandler.DealHandler
	LeadHandler      *leadHandler.LeadHandler
	CampaignHandler  *campaignHandler.CampaignHandler
	AnalyticsHandler *analyticsHandler.AnalyticsHandler
	WSHandler        *wsHandler.WebSocketHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Deals ====================
	deals := api.Group("/deals")
	deals.Use(h.AuthMiddleware.Auth())
	{
		deals.POST("", h.DealHandler.CreateDeal)
		deals.GET("", h.DealHandler.ListDeals)
		deals.GET("/top", h.DealHandler.TopDeals)
		deals.GET("/export", h.DealHandler.ExportDeals)
		deals.GET("/:id", h.DealHandler.GetDeal)
		deals.PUT("/:id", h.DealHandler.UpdateDeal)
		deals.PUT("/:id/stage", h.DealHandler.MoveStage)
		deals.DELETE("/:id", h.DealHandler.DeleteDeal)
	}

	// ==================== Leads ====================
	leads := api.Group("/leads")
	leads.Use(h.AuthMiddleware.Auth())
	{
		leads.POST("", h.LeadHandler.CreateLead)
		leads.GET("", h.LeadHandler.ListLeads)
		leads.GET("/analytics/sources", h.LeadHandler.SourceAnalytics)
		leads.PUT("/:id/status", h.LeadHandler.UpdateStatus)
		leads.POST("/:id/convert", h.LeadHandler.ConvertLead)
	}

	// ==================== Campaigns ====================
	campaigns := api.Group("/campaigns")
	campaigns.Use(h.AuthMiddleware.Auth())
	{
		campaigns.GET("", h.CampaignHandler.ListCampaigns)
		campaigns.GET("/rollup", h.CampaignHandler.CampaignRollup)
		campaigns.GET("/:id/metrics", h.CampaignHandler.CampaignMetrics)
	}

	// ==================== Analytics ====================
	analytics := api.Group("/analytics")
	analytics.Use(h.AuthMiddleware.Auth())
	{
		analytics.GET("/stats", h.AnalyticsHandler.PipelineStats)
		analytics.GET("/funnel", h.AnalyticsHandler.SalesFunnel)
		analytics.GET("/dashboard", h.AnalyticsHandler.Dashboard)
		analytics.GET("/board", h.AnalyticsHandler.BoardStats)
		analytics.GET("/activity", h.AnalyticsHandler.RecentActivity)
	}
}

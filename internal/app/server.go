// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"pipeline-service/internal/cache"
	"pipeline-service/internal/config"
	"pipeline-service/internal/db"
	analyticsHandler "pipeline-service/internal/handlers/analytics"
	campaignHandler "pipeline-service/internal/handlers/campaign"
	dealHandler "pipeline-service/internal/handlers/deal"
	leadHandler "pipeline-service/internal/handlers/lead"
	wsHandler "pipeline-service/internal/handlers/websocket"
	"pipeline-service/internal/middleware"
	"pipeline-service/internal/pkg/jwt"
	"pipeline-service/internal/repository/postgres"
	analyticsUsecase "pipeline-service/internal/service/analytics"
	campaignUsecase "pipeline-service/internal/service/campaign"
	dealUsecase "pipeline-service/internal/service/deal"
	exportUsecase "pipeline-service/internal/service/export"
	leadUsecase "pipeline-service/internal/service/lead"
	"pipeline-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	cacheClient := cache.NewClient(redisClient)

	// ----- JWT -----
	if s.cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	verifier := jwt.NewVerifier([]byte(s.cfg.JWTSecret), s.cfg.JWTIssuer)

	// ----- Repositories -----
	dealRepo := postgres.NewDealRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(verifier)
	go hub.Run(ctx)

	// ----- Services (Usecases) -----
	dealService := dealUsecase.NewLifecycleService(dealRepo, activityRepo, hub, logger)
	leadService := leadUsecase.NewAttributionService(leadRepo, campaignRepo, logger)
	campaignService := campaignUsecase.NewCostService(campaignRepo, leadRepo, logger)
	analyticsService := analyticsUsecase.NewService(
		dealRepo,
		leadRepo,
		activityRepo,
		userRepo,
		cacheClient,
		s.cfg.MonthlyTarget,
		logger,
	)
	exportService := exportUsecase.NewService(dealRepo)

	// ----- Handlers -----
	dealHandlerInst := dealHandler.NewDealHandler(dealService, exportService)
	leadHandlerInst := leadHandler.NewLeadHandler(leadService)
	campaignHandlerInst := campaignHandler.NewCampaignHandler(campaignService)
	analyticsHandlerInst := analyticsHandler.NewAnalyticsHandler(analyticsService)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(verifier)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		DealHandler:      dealHandlerInst,
		LeadHandler:      leadHandlerInst,
		CampaignHandler:  campaignHandlerInst,
		AnalyticsHandler: analyticsHandlerInst,
		WSHandler:        wsHandlerInst,
		AuthMiddleware:   authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

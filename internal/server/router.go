// Package server assembles the HTTP API.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"stockwatch/internal/alerting"
	"stockwatch/internal/handlers"
	"stockwatch/internal/logger"
	"stockwatch/internal/market"
	"stockwatch/internal/middleware"
	"stockwatch/internal/notifier"
	"stockwatch/internal/pricing"
	"stockwatch/internal/services"
)

// Options configures the router.
type Options struct {
	PipelineAPIKey   string
	PriceConcurrency int
	Alerting         alerting.Options
	Swagger          bool
}

// NewRouter wires services, handlers and middleware on top of db.
func NewRouter(db *gorm.DB, source pricing.Source, n notifier.Notifier, opts Options) *gin.Engine {
	// Services
	userService := services.NewUserService(db)
	sectorService := services.NewSectorService(db)
	stockService := services.NewStockService(db)
	alertService := services.NewAlertService(db, source)
	portfolioService := services.NewPortfolioService(db, source, opts.PriceConcurrency)
	auditService := services.NewAuditService(db)

	processorOpts := opts.Alerting
	if processorOpts.Concurrency == 0 {
		processorOpts.Concurrency = opts.PriceConcurrency
	}
	processor := alerting.NewProcessor(alertService, stockService, source, n, processorOpts, logger.Named("alerting"))

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	sectorHandler := handlers.NewSectorHandler(sectorService, auditService)
	stockHandler := handlers.NewStockHandler(stockService, source)
	alertHandler := handlers.NewAlertHandler(alertService, auditService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	pipelineHandler := handlers.NewPipelineHandler(stockService, processor)
	marketHandler := handlers.NewMarketHandler(market.NSE())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/", handlers.Index)
	router.GET("/health", handlers.Health)

	// Price lookups
	router.POST("/api/search", stockHandler.Search)
	router.POST("/api/stock-details", stockHandler.Details)

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	v1.GET("/market/status", marketHandler.GetStatus)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	sectors := protected.Group("/sectors")
	sectors.POST("", sectorHandler.CreateSector)
	sectors.GET("", sectorHandler.GetSectors)
	sectors.DELETE("/:id", sectorHandler.DeleteSector)

	alerts := protected.Group("/alerts")
	alerts.POST("", alertHandler.CreateAlert)
	alerts.GET("", alertHandler.GetAlerts)
	alerts.GET("/logs", alertHandler.GetAlertLogs)
	alerts.GET("/:id", alertHandler.GetAlert)
	alerts.PUT("/:id", alertHandler.UpdateAlert)
	alerts.DELETE("/:id", alertHandler.DeleteAlert)
	alerts.GET("/:id/evaluation", alertHandler.EvaluateAlert)

	protected.GET("/portfolio", portfolioHandler.GetPortfolio)
	protected.GET("/stocks", stockHandler.ListStocks)

	// Pipeline routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(opts.PipelineAPIKey))
	pipeline.GET("/stocks", pipelineHandler.ListStocks)
	pipeline.POST("/stocks/prices", pipelineHandler.RecordPrices)
	pipeline.POST("/alerts/run", pipelineHandler.RunAlerts)

	return router
}

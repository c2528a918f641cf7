package main

import (
	"fmt"
	"net/http"
	"os"

	"stockwatch/internal/alerting"
	"stockwatch/internal/config"
	"stockwatch/internal/database"
	"stockwatch/internal/logger"
	"stockwatch/internal/market"
	"stockwatch/internal/notifier"
	"stockwatch/internal/pricing"
	"stockwatch/internal/server"
	"stockwatch/internal/validator"

	_ "stockwatch/internal/docs" // Import swagger docs
)

// @title           Stockwatch API
// @version         1.0
// @description     Stock watchlist with gain/loss alerts and portfolio valuation for NSE and BSE listings.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	httpClient := &http.Client{Timeout: appConfig.PriceRequestTimeout}
	source := pricing.New(appConfig.PriceAPIURL, httpClient, appConfig.PriceRateLimit, logger.Named("pricing"))
	alertNotifier := notifier.New(appConfig.DiscordWebhookURL, httpClient, logger.Named("notifier"))

	router := server.NewRouter(dbManager.DB(), source, alertNotifier, server.Options{
		PipelineAPIKey:   appConfig.PipelineAPIKey,
		PriceConcurrency: appConfig.PriceConcurrency,
		Alerting: alerting.Options{
			MarketHoursOnly: appConfig.MarketHoursOnly,
			Session:         market.NSE(),
		},
		Swagger: appConfig.Env != "production",
	})

	if appConfig.PipelineAPIKey == "" {
		log.Warn("PIPELINE_API_KEY not set, pipeline endpoints are disabled")
	}

	log.Infof("Starting Stockwatch server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// Command alertd checks every active alert against live prices, either once
// or on a cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stockwatch/internal/alerting"
	"stockwatch/internal/config"
	"stockwatch/internal/database"
	"stockwatch/internal/logger"
	"stockwatch/internal/market"
	"stockwatch/internal/notifier"
	"stockwatch/internal/pricing"
	"stockwatch/internal/scheduler"
	"stockwatch/internal/services"
)

func main() {
	schedule := flag.Bool("schedule", false, "keep running and check on ALERT_SCHEDULE")
	force := flag.Bool("force", false, "check even when the market is closed")
	flag.Parse()

	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(*schedule, *force); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(schedule, force bool) error {
	log := logger.Named("alertd")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	httpClient := &http.Client{Timeout: cfg.PriceRequestTimeout}
	source := pricing.New(cfg.PriceAPIURL, httpClient, cfg.PriceRateLimit, logger.Named("pricing"))

	processor := alerting.NewProcessor(
		services.NewAlertService(db, source),
		services.NewStockService(db),
		source,
		notifier.New(cfg.DiscordWebhookURL, httpClient, logger.Named("notifier")),
		alerting.Options{
			MarketHoursOnly: cfg.MarketHoursOnly && !force,
			Session:         market.NSE(),
			Concurrency:     cfg.PriceConcurrency,
		},
		logger.Named("alerting"),
	)

	job := scheduler.NewJob("alert-check", func(ctx context.Context) error {
		result, err := processor.Run(ctx)
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			log.Warnw("alert check failed", "alert_id", e.AlertID, "company", e.CompanyName, "error", e.Error)
		}
		return nil
	})

	sched := scheduler.New(log)
	if !schedule {
		return sched.RunNow(job)
	}

	if err := sched.AddJob(cfg.AlertSchedule, job); err != nil {
		return fmt.Errorf("invalid ALERT_SCHEDULE %q: %w", cfg.AlertSchedule, err)
	}
	sched.Start()
	log.Infow("alert scheduler started", "schedule", cfg.AlertSchedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down alert scheduler")
	sched.Stop()
	return nil
}

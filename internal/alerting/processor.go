// Package alerting runs the periodic alert check: quote every watched stock,
// record prices, evaluate thresholds, log triggers and notify.
package alerting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stockwatch/internal/alertengine"
	"stockwatch/internal/market"
	"stockwatch/internal/models"
	"stockwatch/internal/notifier"
	"stockwatch/internal/pricing"
	"stockwatch/internal/services"
)

// AlertStore defines the alert operations needed by the processor.
type AlertStore interface {
	GetActiveAlerts() ([]models.UserAlert, error)
	RecordTrigger(entry *models.AlertLog) error
}

// PriceRecorder stores observed prices.
type PriceRecorder interface {
	RecordPrices(prices []services.PriceInput) (int, error)
}

// Options configures a Processor.
type Options struct {
	// MarketHoursOnly skips runs while Session is closed.
	MarketHoursOnly bool
	Session         market.Session
	Concurrency     int
	Now             func() time.Time
}

// AlertError records an alert that could not be evaluated.
type AlertError struct {
	AlertID     string `json:"alert_id"`
	CompanyName string `json:"company_name"`
	Error       string `json:"error"`
}

// RunResult contains the outcome of one alert check.
type RunResult struct {
	Skipped           bool          `json:"skipped"`
	AlertsChecked     int           `json:"alerts_checked"`
	QuotesFetched     int           `json:"quotes_fetched"`
	PricesRecorded    int           `json:"prices_recorded"`
	Triggered         int           `json:"triggered"`
	NotificationsSent int           `json:"notifications_sent"`
	Errors            []AlertError  `json:"errors"`
	Duration          time.Duration `json:"duration_ns"`
}

// Processor checks active alerts against live prices.
type Processor struct {
	alerts   AlertStore
	prices   PriceRecorder
	quoter   pricing.Quoter
	notifier notifier.Notifier
	opts     Options
	logger   *zap.SugaredLogger
}

// NewProcessor creates a new Processor.
func NewProcessor(alerts AlertStore, prices PriceRecorder, quoter pricing.Quoter, n notifier.Notifier, opts Options, logger *zap.SugaredLogger) *Processor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Session.Location == nil {
		opts.Session = market.NSE()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Processor{
		alerts:   alerts,
		prices:   prices,
		quoter:   quoter,
		notifier: n,
		opts:     opts,
		logger:   logger,
	}
}

// Run executes a single alert check. Per-alert failures are collected in the
// result; only failing to load the alerts is an error.
func (p *Processor) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	now := p.opts.Now()
	result := &RunResult{Errors: []AlertError{}}

	// 1. Respect market hours.
	if p.opts.MarketHoursOnly && !p.opts.Session.IsOpen(now) {
		p.logger.Infow("market closed, skipping alert check",
			"exchange", p.opts.Session.Exchange,
			"now", now.In(p.opts.Session.Location).Format("15:04:05 MST"),
		)
		result.Skipped = true
		result.Duration = time.Since(start)
		return result, nil
	}

	// 2. Load active alerts.
	alerts, err := p.alerts.GetActiveAlerts()
	if err != nil {
		return nil, fmt.Errorf("loading active alerts: %w", err)
	}
	result.AlertsChecked = len(alerts)
	p.logger.Infow("found active alerts", "count", len(alerts))

	if len(alerts) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	// 3. Quote each company once.
	names := make([]string, 0, len(alerts))
	for i := range alerts {
		names = append(names, alerts[i].Stock.CompanyName)
	}
	quotes := pricing.QuoteMany(ctx, p.quoter, names, p.opts.Concurrency)
	for _, q := range quotes {
		if q.Usable() {
			result.QuotesFetched++
		}
	}

	// 4. Record one price per stock.
	result.PricesRecorded = p.recordPrices(alerts, quotes, now)

	// 5. Evaluate every alert.
	var triggered []notifier.Alert
	for i := range alerts {
		alert := &alerts[i]
		company := alert.Stock.CompanyName

		ev, err := alertengine.EvaluateHolding(alert.Holding(), quotes[company])
		if err != nil {
			reason := err.Error()
			if q := quotes[company]; q.Error != "" {
				reason = q.Error
			}
			p.logger.Warnw("could not evaluate alert", "alert_id", alert.ID, "company", company, "error", reason)
			result.Errors = append(result.Errors, AlertError{AlertID: alert.ID, CompanyName: company, Error: reason})
			continue
		}
		if !ev.Triggered {
			continue
		}

		alertType := alertTypeOf(ev.Direction)
		message := fmt.Sprintf("%s %s: %s%% change", company, alertType, ev.PercentChange.StringFixed(2))

		entry := &models.AlertLog{
			AlertID:       alert.ID,
			UserID:        alert.UserID,
			StockID:       alert.StockID,
			TriggerPrice:  ev.CurrentPrice,
			BaselinePrice: ev.BaselinePrice,
			PercentChange: ev.PercentChange.Round(4),
			AlertType:     alertType,
			Message:       message,
			TriggeredAt:   now.UTC(),
		}
		if err := p.alerts.RecordTrigger(entry); err != nil {
			p.logger.Errorw("failed to log triggered alert", "alert_id", alert.ID, "error", err)
		}
		p.logger.Infow("alert triggered", "alert_id", alert.ID, "message", message)

		triggered = append(triggered, notifier.Alert{
			CompanyName:   company,
			AlertType:     string(alertType),
			CurrentPrice:  ev.CurrentPrice,
			BaselinePrice: ev.BaselinePrice,
			PercentChange: ev.PercentChange,
			UserEmail:     alert.User.Email,
		})
	}
	result.Triggered = len(triggered)

	// 6. Notify.
	if len(triggered) > 0 {
		result.NotificationsSent = p.notifier.SendBatch(ctx, triggered)
		p.logger.Infow("sent notifications", "sent", result.NotificationsSent, "triggered", len(triggered))
	}
	if err := p.notifier.SendSummary(ctx, notifier.Summary{AlertsChecked: result.AlertsChecked, Triggered: result.Triggered}); err != nil {
		p.logger.Warnw("failed to send summary", "error", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// recordPrices stores the usable quote of every distinct stock and returns
// the number of new price entries.
func (p *Processor) recordPrices(alerts []models.UserAlert, quotes map[string]alertengine.PriceQuote, now time.Time) int {
	recordedAt := now.UTC().Truncate(time.Second)
	seen := make(map[string]struct{}, len(alerts))
	var entries []services.PriceInput
	for i := range alerts {
		a := &alerts[i]
		if _, dup := seen[a.StockID]; dup {
			continue
		}
		q, ok := quotes[a.Stock.CompanyName]
		if !ok || !q.Usable() {
			continue
		}
		seen[a.StockID] = struct{}{}
		entries = append(entries, services.PriceInput{StockID: a.StockID, Price: q.Price, RecordedAt: recordedAt})
	}
	if len(entries) == 0 {
		return 0
	}

	recorded, err := p.prices.RecordPrices(entries)
	if err != nil {
		p.logger.Warnw("failed to record price history", "count", len(entries), "error", err)
		return 0
	}
	return recorded
}

func alertTypeOf(d alertengine.Direction) models.AlertType {
	if d == alertengine.DirectionLoss {
		return models.AlertTypeLoss
	}
	return models.AlertTypeGain
}

// Package notifier delivers triggered stock alerts to users.
package notifier

import (
	"context"
	"net/http"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Alert is a triggered alert ready to be delivered.
type Alert struct {
	CompanyName   string
	AlertType     string // GAIN or LOSS
	CurrentPrice  decimal.Decimal
	BaselinePrice decimal.Decimal
	PercentChange decimal.Decimal
	UserEmail     string
}

// IsGain reports whether the alert fired on the gain side.
func (a Alert) IsGain() bool { return a.AlertType == "GAIN" }

// Summary describes one alert-check run.
type Summary struct {
	AlertsChecked int
	Triggered     int
}

// Notifier sends alert notifications.
type Notifier interface {
	Send(ctx context.Context, alert Alert) error
	// SendBatch sends each alert and returns how many were delivered.
	SendBatch(ctx context.Context, alerts []Alert) int
	SendSummary(ctx context.Context, summary Summary) error
}

// FormatRupees renders an amount as Indian rupees with thousands separators
// and two decimals, e.g. ₹1,234.50.
func FormatRupees(amount decimal.Decimal) string {
	inr := money.GetCurrency(money.INR)
	return inr.Formatter().Format(amount.Shift(int32(inr.Fraction)).Round(0).IntPart())
}

// FormatPercent renders a percentage with two decimals and a leading plus
// sign when positive.
func FormatPercent(pct decimal.Decimal) string {
	s := pct.StringFixed(2) + "%"
	if pct.Round(2).IsPositive() {
		return "+" + s
	}
	return s
}

// LogNotifier writes alerts to the log. Used when no webhook is configured.
type LogNotifier struct {
	logger *zap.SugaredLogger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the alert.
func (n *LogNotifier) Send(_ context.Context, alert Alert) error {
	n.logger.Infow("stock alert",
		"company", alert.CompanyName,
		"type", alert.AlertType,
		"current_price", FormatRupees(alert.CurrentPrice),
		"baseline_price", FormatRupees(alert.BaselinePrice),
		"change", FormatPercent(alert.PercentChange),
		"user", alert.UserEmail,
	)
	return nil
}

// SendBatch logs every alert.
func (n *LogNotifier) SendBatch(ctx context.Context, alerts []Alert) int {
	for _, a := range alerts {
		_ = n.Send(ctx, a)
	}
	return len(alerts)
}

// SendSummary logs the run summary.
func (n *LogNotifier) SendSummary(_ context.Context, summary Summary) error {
	n.logger.Infow("alert check summary", "checked", summary.AlertsChecked, "triggered", summary.Triggered)
	return nil
}

// New returns a Discord notifier when webhookURL is set and a LogNotifier otherwise.
func New(webhookURL string, httpClient *http.Client, logger *zap.SugaredLogger) Notifier {
	if webhookURL == "" {
		logger.Warn("DISCORD_WEBHOOK_URL not set, alerts will only be logged")
		return NewLogNotifier(logger)
	}
	return NewDiscord(webhookURL, httpClient, logger)
}

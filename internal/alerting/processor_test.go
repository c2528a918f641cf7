package alerting

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockwatch/internal/alertengine"
	"stockwatch/internal/models"
	"stockwatch/internal/notifier"
	"stockwatch/internal/services"
)

// mockStore implements AlertStore for testing.
type mockStore struct {
	getActiveAlertsFn func() ([]models.UserAlert, error)
	recordTriggerFn   func(entry *models.AlertLog) error
	logged            []*models.AlertLog
}

func (m *mockStore) GetActiveAlerts() ([]models.UserAlert, error) {
	return m.getActiveAlertsFn()
}

func (m *mockStore) RecordTrigger(entry *models.AlertLog) error {
	m.logged = append(m.logged, entry)
	if m.recordTriggerFn != nil {
		return m.recordTriggerFn(entry)
	}
	return nil
}

// mockRecorder implements PriceRecorder for testing.
type mockRecorder struct {
	recordPricesFn func(prices []services.PriceInput) (int, error)
	received       []services.PriceInput
}

func (m *mockRecorder) RecordPrices(prices []services.PriceInput) (int, error) {
	m.received = append(m.received, prices...)
	if m.recordPricesFn != nil {
		return m.recordPricesFn(prices)
	}
	return len(prices), nil
}

// mockQuoter returns fixed prices by company name and counts lookups.
type mockQuoter struct {
	mu     sync.Mutex
	prices map[string]string
	calls  map[string]int
}

func (m *mockQuoter) Quote(_ context.Context, companyName string) alertengine.PriceQuote {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[companyName]++
	p, ok := m.prices[companyName]
	if !ok {
		return alertengine.FailedQuote(companyName, errors.New("company not found"))
	}
	return alertengine.PriceQuote{CompanyName: companyName, Price: decimal.RequireFromString(p), Success: true}
}

// mockNotifier implements notifier.Notifier for testing.
type mockNotifier struct {
	sent      []notifier.Alert
	summaries []notifier.Summary
	failAll   bool
}

func (m *mockNotifier) Send(_ context.Context, alert notifier.Alert) error {
	if m.failAll {
		return errors.New("webhook down")
	}
	m.sent = append(m.sent, alert)
	return nil
}

func (m *mockNotifier) SendBatch(ctx context.Context, alerts []notifier.Alert) int {
	n := 0
	for _, a := range alerts {
		if m.Send(ctx, a) == nil {
			n++
		}
	}
	return n
}

func (m *mockNotifier) SendSummary(_ context.Context, summary notifier.Summary) error {
	m.summaries = append(m.summaries, summary)
	return nil
}

// tuesdayMorning is 10:00 IST on a trading day.
var tuesdayMorning = time.Date(2024, 1, 16, 4, 30, 0, 0, time.UTC)

func testAlert(id, stockID, company, baseline string) models.UserAlert {
	a := models.UserAlert{
		UserID:               "user-1",
		StockID:              stockID,
		BaselinePrice:        decimal.RequireFromString(baseline),
		GainThresholdPercent: decimal.NewFromInt(10),
		LossThresholdPercent: decimal.NewFromInt(5),
		IsActive:             true,
	}
	a.ID = id
	a.Stock.ID = stockID
	a.Stock.CompanyName = company
	a.User.Email = "investor@test.com"
	return a
}

func newTestProcessor(store *mockStore, rec *mockRecorder, q *mockQuoter, n *mockNotifier, opts Options) *Processor {
	if opts.Now == nil {
		opts.Now = func() time.Time { return tuesdayMorning }
	}
	return NewProcessor(store, rec, q, n, opts, zap.NewNop().Sugar())
}

func TestRun_TriggersGainAndLoss(t *testing.T) {
	store := &mockStore{getActiveAlertsFn: func() ([]models.UserAlert, error) {
		return []models.UserAlert{
			testAlert("a1", "s1", "Tata Steel Ltd", "150"),
			testAlert("a2", "s2", "Wipro Ltd", "400"),
			testAlert("a3", "s3", "ITC Ltd", "300"),
		}, nil
	}}
	rec := &mockRecorder{}
	q := &mockQuoter{prices: map[string]string{
		"Tata Steel Ltd": "165.5",
		"Wipro Ltd":      "376",
		"ITC Ltd":        "305",
	}}
	n := &mockNotifier{}

	result, err := newTestProcessor(store, rec, q, n, Options{Concurrency: 2}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AlertsChecked != 3 || result.QuotesFetched != 3 || result.PricesRecorded != 3 {
		t.Errorf("unexpected counts: %+v", result)
	}
	if result.Triggered != 2 || result.NotificationsSent != 2 {
		t.Errorf("expected 2 triggered and sent, got %d/%d", result.Triggered, result.NotificationsSent)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}

	if len(store.logged) != 2 {
		t.Fatalf("expected 2 alert logs, got %d", len(store.logged))
	}
	gain := store.logged[0]
	if gain.AlertType != models.AlertTypeGain || gain.Message != "Tata Steel Ltd GAIN: 10.33% change" {
		t.Errorf("unexpected gain log: %s %q", gain.AlertType, gain.Message)
	}
	if !gain.TriggeredAt.Equal(tuesdayMorning) {
		t.Errorf("expected triggered_at from clock, got %s", gain.TriggeredAt)
	}
	loss := store.logged[1]
	if loss.AlertType != models.AlertTypeLoss || loss.Message != "Wipro Ltd LOSS: -6.00% change" {
		t.Errorf("unexpected loss log: %s %q", loss.AlertType, loss.Message)
	}

	if n.sent[0].UserEmail != "investor@test.com" || !n.sent[0].IsGain() {
		t.Errorf("unexpected notification: %+v", n.sent[0])
	}
	if len(n.summaries) != 1 || n.summaries[0].Triggered != 2 || n.summaries[0].AlertsChecked != 3 {
		t.Errorf("unexpected summary: %+v", n.summaries)
	}
}

func TestRun_QuotesEachCompanyOnce(t *testing.T) {
	store := &mockStore{getActiveAlertsFn: func() ([]models.UserAlert, error) {
		a := testAlert("a1", "s1", "Tata Steel Ltd", "150")
		b := testAlert("a2", "s1", "Tata Steel Ltd", "100")
		b.UserID = "user-2"
		return []models.UserAlert{a, b}, nil
	}}
	rec := &mockRecorder{}
	q := &mockQuoter{prices: map[string]string{"Tata Steel Ltd": "151"}}

	result, err := newTestProcessor(store, rec, q, &mockNotifier{}, Options{Concurrency: 4}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.calls["Tata Steel Ltd"] != 1 {
		t.Errorf("expected one lookup, got %d", q.calls["Tata Steel Ltd"])
	}
	if len(rec.received) != 1 {
		t.Errorf("expected one price entry for the shared stock, got %d", len(rec.received))
	}
	if !rec.received[0].RecordedAt.Equal(tuesdayMorning) {
		t.Errorf("expected recorded_at from clock, got %s", rec.received[0].RecordedAt)
	}
	// 151 vs 100 is +51%.
	if result.Triggered != 1 {
		t.Errorf("expected 1 triggered, got %d", result.Triggered)
	}
}

func TestRun_FailedQuoteIsRecordedAndSkipped(t *testing.T) {
	store := &mockStore{getActiveAlertsFn: func() ([]models.UserAlert, error) {
		return []models.UserAlert{
			testAlert("a1", "s1", "Unknown Ltd", "10"),
			testAlert("a2", "s2", "Wipro Ltd", "400"),
		}, nil
	}}
	rec := &mockRecorder{}
	q := &mockQuoter{prices: map[string]string{"Wipro Ltd": "480"}}

	result, err := newTestProcessor(store, rec, q, &mockNotifier{}, Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if result.Errors[0].AlertID != "a1" || !strings.Contains(result.Errors[0].Error, "company not found") {
		t.Errorf("unexpected error entry: %+v", result.Errors[0])
	}
	if result.QuotesFetched != 1 || result.PricesRecorded != 1 || result.Triggered != 1 {
		t.Errorf("unexpected counts: %+v", result)
	}
}

func TestRun_MarketClosed(t *testing.T) {
	called := false
	store := &mockStore{getActiveAlertsFn: func() ([]models.UserAlert, error) {
		called = true
		return nil, nil
	}}
	saturday := time.Date(2024, 1, 20, 5, 0, 0, 0, time.UTC)

	result, err := newTestProcessor(store, &mockRecorder{}, &mockQuoter{}, &mockNotifier{}, Options{
		MarketHoursOnly: true,
		Now:             func() time.Time { return saturday },
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Error("expected run to be skipped")
	}
	if called {
		t.Error("expected alerts not to be loaded while the market is closed")
	}
}

func TestRun_MarketHoursOpen(t *testing.T) {
	store := &mockStore{getActiveAlertsFn: func() ([]models.UserAlert, error) { return nil, nil }}

	result, err := newTestProcessor(store, &mockRecorder{}, &mockQuoter{}, &mockNotifier{}, Options{MarketHoursOnly: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped {
		t.Error("expected run during trading hours")
	}
}

func TestRun_LoadError(t *testing.T) {
	store := &mockStore{getActiveAlertsFn: func() ([]models.UserAlert, error) {
		return nil, errors.New("db down")
	}}

	_, err := newTestProcessor(store, &mockRecorder{}, &mockQuoter{}, &mockNotifier{}, Options{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
}

func TestRun_RecordFailuresDoNotStopNotifications(t *testing.T) {
	store := &mockStore{
		getActiveAlertsFn: func() ([]models.UserAlert, error) {
			return []models.UserAlert{testAlert("a1", "s1", "Tata Steel Ltd", "100")}, nil
		},
		recordTriggerFn: func(*models.AlertLog) error { return errors.New("insert failed") },
	}
	rec := &mockRecorder{recordPricesFn: func([]services.PriceInput) (int, error) {
		return 0, errors.New("insert failed")
	}}
	n := &mockNotifier{}

	result, err := newTestProcessor(store, rec, &mockQuoter{prices: map[string]string{"Tata Steel Ltd": "80"}}, n, Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PricesRecorded != 0 {
		t.Errorf("expected 0 prices recorded, got %d", result.PricesRecorded)
	}
	if result.Triggered != 1 || result.NotificationsSent != 1 {
		t.Errorf("expected notification despite log failure, got %d/%d", result.Triggered, result.NotificationsSent)
	}
}

func TestRun_NotifierFailures(t *testing.T) {
	store := &mockStore{getActiveAlertsFn: func() ([]models.UserAlert, error) {
		return []models.UserAlert{testAlert("a1", "s1", "Tata Steel Ltd", "100")}, nil
	}}
	n := &mockNotifier{failAll: true}

	result, err := newTestProcessor(store, &mockRecorder{}, &mockQuoter{prices: map[string]string{"Tata Steel Ltd": "120"}}, n, Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Triggered != 1 || result.NotificationsSent != 0 {
		t.Errorf("expected 1 triggered, 0 sent, got %d/%d", result.Triggered, result.NotificationsSent)
	}
}

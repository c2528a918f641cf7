package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stockwatch/internal/alertengine"
	"stockwatch/internal/alerting"
	"stockwatch/internal/config"
	"stockwatch/internal/logger"
	"stockwatch/internal/notifier"
	"stockwatch/internal/pricing"
	"stockwatch/internal/testutil"
	"stockwatch/internal/validator"
)

const testAPIKey = "pipeline-test-key"

// fakeSource serves fixed prices and can be changed mid-test.
type fakeSource struct {
	mu     sync.Mutex
	prices map[string]string
}

func (s *fakeSource) set(company, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[company] = price
}

func (s *fakeSource) Quote(_ context.Context, company string) alertengine.PriceQuote {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prices[company]
	if !ok {
		return alertengine.FailedQuote(company, pricing.ErrCompanyNotFound)
	}
	return alertengine.PriceQuote{CompanyName: company, Price: decimal.RequireFromString(p), Success: true}
}

func (s *fakeSource) Details(ctx context.Context, company string) (*pricing.StockDetails, error) {
	q := s.Quote(ctx, company)
	if !q.Success {
		return nil, pricing.ErrCompanyNotFound
	}
	return &pricing.StockDetails{CompanyName: company, Exchange: "NSE", Price: q.Price}, nil
}

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Source *fakeSource
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{JWTSecret: "integration-test-secret", JWTExpirationDur: time.Hour})
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	source := &fakeSource{prices: map[string]string{}}
	router := NewRouter(db, source, notifier.NewLogNotifier(zap.NewNop().Sugar()), Options{
		PipelineAPIKey:   testAPIKey,
		PriceConcurrency: 2,
		Alerting:         alerting.Options{MarketHoursOnly: false},
	})

	return &testApp{DB: db, Router: router, Source: source}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// pipeline makes a pipeline request carrying the API key.
func (app *testApp) pipeline(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, email, username, password string) (accessToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"username":%q,"password":%q}`, email, username, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), user["id"].(string)
}

// createAlert creates an alert and returns it.
func (app *testApp) createAlert(t *testing.T, token, body string) map[string]interface{} {
	t.Helper()
	rec := app.request("POST", "/api/v1/alerts", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create alert failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["alert"].(map[string]interface{})
}

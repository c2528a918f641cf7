package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"stockwatch/internal/models"
	"stockwatch/internal/notifier"
	"stockwatch/internal/testutil"
)

func TestPipelineFlow_APIKey(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/pipeline/stocks", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/api/v1/pipeline/stocks", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}

	// Without a configured key the pipeline is disabled.
	db := testutil.SetupTestDB(t)
	disabled := NewRouter(db, &fakeSource{prices: map[string]string{}}, notifier.NewLogNotifier(zap.NewNop().Sugar()), Options{})
	req = httptest.NewRequest("POST", "/api/v1/pipeline/alerts/run", strings.NewReader(""))
	req.Header.Set("X-API-Key", "")
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when pipeline is not configured, got %d", rec.Code)
	}
}

func TestPipelineFlow_RecordPrices(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateTestUser(t, app.DB)
	stock := testutil.CreateTestStock(t, app.DB, "HDFC Bank Ltd")
	testutil.CreateTestAlert(t, app.DB, user.ID, stock, "1500")

	body := fmt.Sprintf(`{"prices":[
		{"stock_id":%q,"price":"1520.5","recorded_at":"2024-01-16T04:30:00Z"},
		{"stock_id":%q,"price":"1518","recorded_at":"2024-01-16T03:30:00Z"}
	]}`, stock.ID, stock.ID)

	rec := app.pipeline("POST", "/api/v1/pipeline/stocks/prices", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("record failed: %d %s", rec.Code, rec.Body.String())
	}
	if got := parseJSON(t, rec)["prices_recorded"]; got != float64(2) {
		t.Errorf("expected 2 recorded, got %v", got)
	}

	// Same timestamps again are ignored.
	rec = app.pipeline("POST", "/api/v1/pipeline/stocks/prices", body)
	if got := parseJSON(t, rec)["prices_recorded"]; got != float64(0) {
		t.Errorf("expected duplicates ignored, got %v", got)
	}

	var reloaded models.Stock
	if err := app.DB.First(&reloaded, "id = ?", stock.ID).Error; err != nil {
		t.Fatalf("reload stock: %v", err)
	}
	if reloaded.CurrentPrice.String() != "1520.5" {
		t.Errorf("expected current price from the latest entry, got %s", reloaded.CurrentPrice)
	}

	var count int64
	app.DB.Model(&models.PriceHistory{}).Where("stock_id = ?", stock.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 history rows, got %d", count)
	}
}

func TestPublicRoutes(t *testing.T) {
	app := setupApp(t)
	app.Source.set("Tata Steel Ltd", "150")

	for _, path := range []string{"/", "/health", "/api/v1/market/status"} {
		if rec := app.request("GET", path, "", ""); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	rec := app.request("POST", "/api/search", `{"company_name":"Tata Steel Ltd"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("search failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["success"] != true || result["price"] != "150" {
		t.Errorf("unexpected search result %v", result)
	}

	rec = app.request("POST", "/api/search", `{"company_name":"Nowhere Ltd"}`, "")
	if rec.Code != http.StatusOK || parseJSON(t, rec)["success"] != false {
		t.Errorf("expected a 200 with success=false for an unknown company, got %d", rec.Code)
	}

	rec = app.request("OPTIONS", "/api/v1/alerts", "", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
}

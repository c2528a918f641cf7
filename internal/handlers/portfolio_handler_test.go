package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stockwatch/internal/alertengine"
	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/services"
)

type mockPortfolioService struct {
	getPortfolioFn func(ctx context.Context, userID, sectorID string) (*services.PortfolioReport, error)
}

func (m *mockPortfolioService) GetPortfolio(ctx context.Context, userID, sectorID string) (*services.PortfolioReport, error) {
	if m.getPortfolioFn != nil {
		return m.getPortfolioFn(ctx, userID, sectorID)
	}
	return &services.PortfolioReport{}, nil
}

var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

func setupPortfolioRouter(handler *PortfolioHandler) *gin.Engine {
	r := gin.New()
	r.GET("/portfolio", injectUserID(testUserID), handler.GetPortfolio)
	return r
}

func TestPortfolioHandler_GetPortfolio(t *testing.T) {
	t.Run("returns the valuation", func(t *testing.T) {
		var gotSector string
		svc := &mockPortfolioService{
			getPortfolioFn: func(_ context.Context, userID, sectorID string) (*services.PortfolioReport, error) {
				gotSector = sectorID
				return &services.PortfolioReport{
					SectorID: sectorID,
					PortfolioSnapshot: alertengine.PortfolioSnapshot{
						TotalInvestment: decimal.NewFromInt(2500),
						CurrentValue:    decimal.NewFromInt(3000),
						TotalGain:       decimal.NewFromInt(500),
						GainPercentage:  decimal.NewFromInt(20),
					},
					UnquotedHoldings: 1,
				}, nil
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(svc))

		rec := doRequest(r, "GET", "/portfolio?sector_id="+testSectorID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotSector != testSectorID {
			t.Errorf("expected sector %s, got %q", testSectorID, gotSector)
		}
		portfolio := parseJSON(t, rec)["portfolio"].(map[string]interface{})
		if portfolio["current_value"] != "3000" || portfolio["gain_percentage"] != "20" {
			t.Errorf("unexpected portfolio %v", portfolio)
		}
		if portfolio["unquoted_holdings"] != float64(1) {
			t.Errorf("expected 1 unquoted holding, got %v", portfolio["unquoted_holdings"])
		}
	})

	t.Run("without sector", func(t *testing.T) {
		gotSector := "unset"
		svc := &mockPortfolioService{
			getPortfolioFn: func(_ context.Context, _, sectorID string) (*services.PortfolioReport, error) {
				gotSector = sectorID
				return &services.PortfolioReport{}, nil
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(svc))

		rec := doRequest(r, "GET", "/portfolio", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotSector != "" {
			t.Errorf("expected empty sector, got %q", gotSector)
		}
	})

	t.Run("rejects malformed sector", func(t *testing.T) {
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}))

		rec := doRequest(r, "GET", "/portfolio?sector_id=banking", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("unknown sector", func(t *testing.T) {
		svc := &mockPortfolioService{
			getPortfolioFn: func(context.Context, string, string) (*services.PortfolioReport, error) {
				return nil, apperrors.ErrSectorNotFound
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(svc))

		rec := doRequest(r, "GET", "/portfolio?sector_id="+testSectorID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SECTOR_NOT_FOUND")
	})
}

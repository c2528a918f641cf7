package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
	"stockwatch/internal/services"
)

// --- mock sector service ---

type mockSectorService struct {
	createSectorFn   func(userID, name string) (*models.Sector, error)
	getUserSectorsFn func(userID string) ([]models.Sector, error)
	getSectorByIDFn  func(userID, sectorID string) (*models.Sector, error)
	deleteSectorFn   func(userID, sectorID string) error
}

func (m *mockSectorService) CreateSector(userID, name string) (*models.Sector, error) {
	if m.createSectorFn != nil {
		return m.createSectorFn(userID, name)
	}
	return &models.Sector{UserID: userID, Name: name}, nil
}

func (m *mockSectorService) GetUserSectors(userID string) ([]models.Sector, error) {
	if m.getUserSectorsFn != nil {
		return m.getUserSectorsFn(userID)
	}
	return []models.Sector{}, nil
}

func (m *mockSectorService) GetSectorByID(userID, sectorID string) (*models.Sector, error) {
	if m.getSectorByIDFn != nil {
		return m.getSectorByIDFn(userID, sectorID)
	}
	return &models.Sector{}, nil
}

func (m *mockSectorService) DeleteSector(userID, sectorID string) error {
	if m.deleteSectorFn != nil {
		return m.deleteSectorFn(userID, sectorID)
	}
	return nil
}

var _ services.SectorServicer = (*mockSectorService)(nil)

const testSectorID = "0190a0b2-0000-7000-8000-0000000000a1"

func setupSectorRouter(handler *SectorHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/sectors", handler.CreateSector)
	auth.GET("/sectors", handler.GetSectors)
	auth.DELETE("/sectors/:id", handler.DeleteSector)
	return r
}

func TestSectorHandler_CreateSector(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotUser, gotName string
		svc := &mockSectorService{
			createSectorFn: func(userID, name string) (*models.Sector, error) {
				gotUser, gotName = userID, name
				return &models.Sector{UserID: userID, Name: name}, nil
			},
		}
		r := setupSectorRouter(NewSectorHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/sectors", `{"name":"Banking"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUser != testUserID || gotName != "Banking" {
			t.Errorf("unexpected service call: %s %s", gotUser, gotName)
		}
		sector := parseJSON(t, rec)["sector"].(map[string]interface{})
		if sector["name"] != "Banking" {
			t.Errorf("expected name Banking, got %v", sector["name"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupSectorRouter(NewSectorHandler(&mockSectorService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/sectors", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		svc := &mockSectorService{
			createSectorFn: func(_, _ string) (*models.Sector, error) {
				return nil, apperrors.ErrDuplicateSector
			},
		}
		r := setupSectorRouter(NewSectorHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/sectors", `{"name":"Banking"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_SECTOR")
	})
}

func TestSectorHandler_GetSectors(t *testing.T) {
	svc := &mockSectorService{
		getUserSectorsFn: func(string) ([]models.Sector, error) {
			return []models.Sector{{Name: "Auto"}, {Name: "IT"}}, nil
		},
	}
	r := setupSectorRouter(NewSectorHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/sectors", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sectors := parseJSON(t, rec)["sectors"].([]interface{})
	if len(sectors) != 2 {
		t.Errorf("expected 2 sectors, got %d", len(sectors))
	}
}

func TestSectorHandler_DeleteSector(t *testing.T) {
	t.Run("returns 200 and audits", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupSectorRouter(NewSectorHandler(&mockSectorService{}, audit))

		rec := doRequest(r, "DELETE", "/sectors/"+testSectorID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DELETE_SECTOR" {
			t.Errorf("expected DELETE_SECTOR audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupSectorRouter(NewSectorHandler(&mockSectorService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/sectors/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockSectorService{
			deleteSectorFn: func(_, _ string) error { return apperrors.ErrSectorNotFound },
		}
		r := setupSectorRouter(NewSectorHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/sectors/"+testSectorID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SECTOR_NOT_FOUND")
	})
}

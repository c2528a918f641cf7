package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
	"stockwatch/internal/pagination"
	"stockwatch/internal/services"
)

// AlertHandler handles alert-related requests.
type AlertHandler struct {
	alertService services.AlertServicer
	auditService services.AuditServicer
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService services.AlertServicer, auditService services.AuditServicer) *AlertHandler {
	return &AlertHandler{alertService: alertService, auditService: auditService}
}

// CreateAlertRequest represents the request payload for creating an alert.
// The stock is identified by stock_id or company_name. Thresholds default to
// 10% gain and 5% loss; an omitted baseline takes the live price.
type CreateAlertRequest struct {
	StockID              string           `json:"stock_id" binding:"omitempty,uuid"`
	CompanyName          string           `json:"company_name" binding:"required_without=StockID,max=200"`
	Symbol               string           `json:"symbol" binding:"max=20"`
	Exchange             models.Exchange  `json:"exchange" binding:"omitempty,exchange"`
	BaselinePrice        *decimal.Decimal `json:"baseline_price" binding:"omitempty,gt=0"`
	GainThresholdPercent *decimal.Decimal `json:"gain_threshold_percent" binding:"omitempty,gte=0"`
	LossThresholdPercent *decimal.Decimal `json:"loss_threshold_percent" binding:"omitempty,gte=0"`
	IsPortfolio          bool             `json:"is_portfolio"`
	SharesCount          int64            `json:"shares_count" binding:"gte=0"`
	SectorID             *string          `json:"sector_id" binding:"omitempty,uuid"`
}

// UpdateAlertRequest represents the request payload for updating an alert.
// Omitted fields are left unchanged; clear_sector removes the sector.
type UpdateAlertRequest struct {
	BaselinePrice        *decimal.Decimal `json:"baseline_price" binding:"omitempty,gt=0"`
	GainThresholdPercent *decimal.Decimal `json:"gain_threshold_percent" binding:"omitempty,gte=0"`
	LossThresholdPercent *decimal.Decimal `json:"loss_threshold_percent" binding:"omitempty,gte=0"`
	IsActive             *bool            `json:"is_active"`
	IsPortfolio          *bool            `json:"is_portfolio"`
	SharesCount          *int64           `json:"shares_count" binding:"omitempty,gte=0"`
	SectorID             *string          `json:"sector_id" binding:"omitempty,uuid"`
	ClearSector          bool             `json:"clear_sector"`
}

// CreateAlert handles creating a new alert.
// @Summary     Create alert
// @Description Watch a stock for gain/loss thresholds, optionally as a portfolio holding
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAlertRequest true "Alert details"
// @Success     201 {object} models.UserAlert "Alert created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Stock or sector not found"
// @Failure     422 {object} ErrorResponse "Shares required"
// @Failure     502 {object} ErrorResponse "Live price unavailable"
// @Router      /alerts [post]
func (h *AlertHandler) CreateAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	alert, err := h.alertService.CreateAlert(c.Request.Context(), userID, services.CreateAlertInput{
		StockID:              req.StockID,
		CompanyName:          req.CompanyName,
		Symbol:               req.Symbol,
		Exchange:             req.Exchange,
		BaselinePrice:        req.BaselinePrice,
		GainThresholdPercent: req.GainThresholdPercent,
		LossThresholdPercent: req.LossThresholdPercent,
		IsPortfolio:          req.IsPortfolio,
		SharesCount:          req.SharesCount,
		SectorID:             req.SectorID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ALERT", "alert", alert.ID, c.ClientIP(),
		map[string]interface{}{"company_name": alert.Stock.CompanyName, "baseline_price": alert.BaselinePrice.String()})

	c.JSON(http.StatusCreated, gin.H{"alert": alert})
}

// GetAlerts handles listing the user's alerts.
// @Summary     List alerts
// @Description Get a paginated list of the user's alerts
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       sector_id    query string false "Only alerts in this sector"
// @Param       is_portfolio query bool   false "Filter by portfolio flag"
// @Param       is_active    query bool   false "Filter by active flag"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.UserAlert] "Paginated alerts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts [get]
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseAlertFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.alertService.GetUserAlerts(userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseAlertFilter(c *gin.Context) (services.AlertFilter, error) {
	var filter services.AlertFilter

	if v := c.Query("sector_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid sector_id")
		}
		filter.SectorID = id.String()
	}

	if v := c.Query("is_portfolio"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid is_portfolio, must be true or false")
		}
		filter.IsPortfolio = &b
	}

	if v := c.Query("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid is_active, must be true or false")
		}
		filter.IsActive = &b
	}

	return filter, nil
}

// GetAlert handles retrieving a single alert.
// @Summary     Get alert
// @Description Get one of the user's alerts with its stock and sector
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Alert ID"
// @Success     200 {object} models.UserAlert "Alert"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Router      /alerts/{id} [get]
func (h *AlertHandler) GetAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	alert, err := h.alertService.GetAlertByID(userID, alertID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// UpdateAlert handles partially updating an alert.
// @Summary     Update alert
// @Description Change thresholds, baseline, portfolio fields, sector or active flag
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Alert ID"
// @Param       request body UpdateAlertRequest true "Fields to change"
// @Success     200 {object} models.UserAlert "Alert updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert or sector not found"
// @Failure     422 {object} ErrorResponse "Shares required"
// @Router      /alerts/{id} [put]
func (h *AlertHandler) UpdateAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	alert, err := h.alertService.UpdateAlert(userID, alertID, services.UpdateAlertInput{
		BaselinePrice:        req.BaselinePrice,
		GainThresholdPercent: req.GainThresholdPercent,
		LossThresholdPercent: req.LossThresholdPercent,
		IsActive:             req.IsActive,
		IsPortfolio:          req.IsPortfolio,
		SharesCount:          req.SharesCount,
		SectorID:             req.SectorID,
		ClearSector:          req.ClearSector,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// DeleteAlert handles deleting an alert.
// @Summary     Delete alert
// @Description Delete an alert; the stock is removed when nothing else watches it
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Alert ID"
// @Success     200 {object} map[string]string "Alert deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Router      /alerts/{id} [delete]
func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.alertService.DeleteAlert(userID, alertID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ALERT", "alert", alertID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Alert deleted successfully"})
}

// EvaluateAlert handles checking an alert against the live price.
// @Summary     Evaluate alert
// @Description Quote the alert's stock and report the change and threshold status
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Alert ID"
// @Success     200 {object} alertengine.HoldingEvaluation "Evaluation"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Failure     502 {object} ErrorResponse "Live price unavailable"
// @Router      /alerts/{id}/evaluation [get]
func (h *AlertHandler) EvaluateAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ev, err := h.alertService.EvaluateAlert(c.Request.Context(), userID, alertID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluation": ev})
}

// GetAlertLogs handles listing the user's triggered alerts.
// @Summary     Alert history
// @Description Get the user's triggered alerts, newest first
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AlertLog] "Paginated alert logs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts/logs [get]
func (h *AlertHandler) GetAlertLogs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.alertService.GetAlertLogs(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stockwatch/internal/alerting"
	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/logger"
	"stockwatch/internal/services"
)

// AlertRunner runs one alert check.
type AlertRunner interface {
	Run(ctx context.Context) (*alerting.RunResult, error)
}

// PipelineHandler serves the machine-to-machine endpoints used by price
// collectors and schedulers.
type PipelineHandler struct {
	stockService services.StockServicer
	runner       AlertRunner
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(stockService services.StockServicer, runner AlertRunner) *PipelineHandler {
	return &PipelineHandler{stockService: stockService, runner: runner}
}

// RecordPricesRequest represents the request payload for bulk price recording.
type RecordPricesRequest struct {
	Prices []RecordPriceEntry `json:"prices" binding:"required,min=1,dive"`
}

// RecordPriceEntry represents a single price entry in a bulk request.
type RecordPriceEntry struct {
	StockID    string          `json:"stock_id" binding:"required,uuid"`
	Price      decimal.Decimal `json:"price" binding:"gt=0"`
	RecordedAt time.Time       `json:"recorded_at" binding:"required"`
}

// ListStocks handles listing every tracked stock.
// @Summary     List all stocks (pipeline)
// @Description Get every stock watched by at least one alert, without pagination
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string][]models.Stock "Stocks"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/stocks [get]
func (h *PipelineHandler) ListStocks(c *gin.Context) {
	stocks, err := h.stockService.ListAllStocks()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stocks": stocks})
}

// RecordPrices handles bulk price recording for stocks.
// @Summary     Record prices
// @Description Bulk record observed prices; duplicates of an existing timestamp are ignored
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body RecordPricesRequest true "Price entries"
// @Success     200 {object} map[string]int "Prices recorded count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/stocks/prices [post]
func (h *PipelineHandler) RecordPrices(c *gin.Context) {
	var req RecordPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.PriceInput, len(req.Prices))
	for i, p := range req.Prices {
		inputs[i] = services.PriceInput{
			StockID:    p.StockID,
			Price:      p.Price,
			RecordedAt: p.RecordedAt,
		}
	}

	count, err := h.stockService.RecordPrices(inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices_recorded": count})
}

// RunAlerts handles running one alert check.
// @Summary     Run alert check
// @Description Quote every watched stock, record triggered alerts and send notifications
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} alerting.RunResult "Run summary"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Internal error"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/alerts/run [post]
func (h *PipelineHandler) RunAlerts(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context())
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	logger.Get().Infow("alert check completed",
		"skipped", result.Skipped,
		"alerts_checked", result.AlertsChecked,
		"triggered", result.Triggered,
		"errors", len(result.Errors),
	)

	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/logger"
	"stockwatch/internal/pagination"
	"stockwatch/internal/pricing"
	"stockwatch/internal/services"
)

// StockHandler handles price lookups and the stock catalogue.
type StockHandler struct {
	stockService services.StockServicer
	source       pricing.Source
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService services.StockServicer, source pricing.Source) *StockHandler {
	return &StockHandler{stockService: stockService, source: source}
}

// SearchRequest represents a price lookup by company name.
type SearchRequest struct {
	CompanyName string `json:"company_name" binding:"required,max=200"`
}

// SearchResponse is the result of a price lookup. Lookup failures are
// reported with Success=false.
type SearchResponse struct {
	CompanyName string           `json:"company_name"`
	Price       *decimal.Decimal `json:"price"`
	Success     bool             `json:"success"`
	Error       *string          `json:"error"`
}

// StockDetailsResponse is the result of a details lookup.
type StockDetailsResponse struct {
	CompanyName string           `json:"company_name"`
	Symbol      string           `json:"symbol,omitempty"`
	Exchange    string           `json:"exchange,omitempty"`
	Price       *decimal.Decimal `json:"price"`
	High        *decimal.Decimal `json:"high"`
	Low         *decimal.Decimal `json:"low"`
	MarketCap   *decimal.Decimal `json:"market_cap"`
	Description string           `json:"description,omitempty"`
	PctFromHigh *decimal.Decimal `json:"pct_from_high"`
	PctFromLow  *decimal.Decimal `json:"pct_from_low"`
	Success     bool             `json:"success"`
	Error       *string          `json:"error"`
}

func bindSearchRequest(c *gin.Context) (string, bool) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return "", false
	}
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Company name is required"))
		return "", false
	}
	return name, true
}

// Search handles a live price lookup.
// @Summary     Search stock price
// @Description Look up the live NSE/BSE price of a company by name
// @Tags        stocks
// @Accept      json
// @Produce     json
// @Param       request body SearchRequest true "Company name"
// @Success     200 {object} SearchResponse "Lookup result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /search [post]
func (h *StockHandler) Search(c *gin.Context) {
	name, ok := bindSearchRequest(c)
	if !ok {
		return
	}

	logger.Get().Infow("searching for stock", "company", name)
	q := h.source.Quote(c.Request.Context(), name)

	resp := SearchResponse{CompanyName: name, Success: q.Usable()}
	if resp.Success {
		price := q.Price
		resp.Price = &price
	} else {
		msg := q.Error
		if msg == "" {
			msg = "Could not find price for " + name
		}
		resp.Error = &msg
	}
	c.JSON(http.StatusOK, resp)
}

// Details handles a price and trading-range lookup.
// @Summary     Stock details
// @Description Look up price, 52-week range, market cap and description of a company
// @Tags        stocks
// @Accept      json
// @Produce     json
// @Param       request body SearchRequest true "Company name"
// @Success     200 {object} StockDetailsResponse "Lookup result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /stock-details [post]
func (h *StockHandler) Details(c *gin.Context) {
	name, ok := bindSearchRequest(c)
	if !ok {
		return
	}

	details, err := h.source.Details(c.Request.Context(), name)
	if err != nil {
		msg := err.Error()
		c.JSON(http.StatusOK, StockDetailsResponse{CompanyName: name, Error: &msg})
		return
	}

	rp := details.RangePosition()
	c.JSON(http.StatusOK, StockDetailsResponse{
		CompanyName: name,
		Symbol:      details.Symbol,
		Exchange:    details.Exchange,
		Price:       positiveOrNil(details.Price),
		High:        positiveOrNil(details.High),
		Low:         positiveOrNil(details.Low),
		MarketCap:   positiveOrNil(details.MarketCap),
		Description: details.Description,
		PctFromHigh: rp.PctFallenFromHigh,
		PctFromLow:  rp.PctGainedFromLow,
		Success:     true,
	})
}

// ListStocks handles listing known stocks.
// @Summary     List stocks
// @Description Get a paginated list of watched stocks, optionally filtered by name or symbol
// @Tags        stocks
// @Produce     json
// @Security    BearerAuth
// @Param       search    query string false "Name or symbol fragment"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Stock] "Paginated stocks"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /stocks [get]
func (h *StockHandler) ListStocks(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	stocks, err := h.stockService.ListStocks(c.Query("search"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stocks)
}

func positiveOrNil(d decimal.Decimal) *decimal.Decimal {
	if !d.IsPositive() {
		return nil
	}
	return &d
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/services"
)

// PortfolioHandler handles portfolio valuation requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetPortfolio handles valuing the user's holdings at live prices.
// @Summary     Get portfolio
// @Description Value portfolio holdings, or every holding of one sector, at live prices
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       sector_id query string false "Only holdings in this sector"
// @Success     200 {object} services.PortfolioReport "Portfolio valuation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sector not found"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sectorID := c.Query("sector_id")
	if sectorID != "" {
		if _, err := uuid.Parse(sectorID); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid sector_id"))
			return
		}
	}

	report, err := h.portfolioService.GetPortfolio(c.Request.Context(), userID, sectorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": report})
}

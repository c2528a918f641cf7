package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockwatch/internal/market"
)

// MarketHandler reports the trading session status.
type MarketHandler struct {
	session market.Session
	now     func() time.Time
}

// NewMarketHandler creates a new MarketHandler for session.
func NewMarketHandler(session market.Session) *MarketHandler {
	return &MarketHandler{session: session, now: time.Now}
}

// GetStatus handles reporting whether the market is open.
// @Summary     Market status
// @Description Whether the exchange is trading now and, when closed, the next opening
// @Tags        market
// @Produce     json
// @Success     200 {object} market.Status "Session status"
// @Router      /market/status [get]
func (h *MarketHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Status(h.now()))
}

// Health handles liveness checks.
// @Summary     Health check
// @Tags        system
// @Produce     json
// @Success     200 {object} map[string]string "Service is up"
// @Router      /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Index handles the root path.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Stock Watchlist API", "status": "running"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/services"
)

// SectorHandler handles sector-related requests.
type SectorHandler struct {
	sectorService services.SectorServicer
	auditService  services.AuditServicer
}

// NewSectorHandler creates a new SectorHandler.
func NewSectorHandler(sectorService services.SectorServicer, auditService services.AuditServicer) *SectorHandler {
	return &SectorHandler{sectorService: sectorService, auditService: auditService}
}

// CreateSectorRequest represents the request payload for creating a sector.
type CreateSectorRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateSector handles creating a new sector.
// @Summary     Create sector
// @Description Create a named bucket for grouping alerts
// @Tags        sectors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSectorRequest true "Sector name"
// @Success     201 {object} models.Sector "Sector created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate sector"
// @Router      /sectors [post]
func (h *SectorHandler) CreateSector(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sector, err := h.sectorService.CreateSector(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sector": sector})
}

// GetSectors handles listing the user's sectors.
// @Summary     List sectors
// @Description Get the authenticated user's sectors ordered by name
// @Tags        sectors
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Sector "Sectors"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /sectors [get]
func (h *SectorHandler) GetSectors(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sectors, err := h.sectorService.GetUserSectors(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}

// DeleteSector handles deleting a sector.
// @Summary     Delete sector
// @Description Delete a sector; its alerts are kept without a sector
// @Tags        sectors
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Sector ID"
// @Success     200 {object} map[string]string "Sector deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sector not found"
// @Router      /sectors/{id} [delete]
func (h *SectorHandler) DeleteSector(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sectorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.sectorService.DeleteSector(userID, sectorID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SECTOR", "sector", sectorID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Sector deleted successfully"})
}

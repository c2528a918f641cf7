package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// sectorService handles sector-related business logic.
type sectorService struct {
	db *gorm.DB
}

// NewSectorService creates a new SectorServicer.
func NewSectorService(db *gorm.DB) SectorServicer {
	return &sectorService{db: db}
}

// CreateSector creates a sector for the user. Names are unique per user.
func (s *sectorService) CreateSector(userID, name string) (*models.Sector, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Sector name is required")
	}

	var count int64
	if err := s.db.Model(&models.Sector{}).Where("user_id = ? AND name = ?", userID, name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateSector
	}

	sector := &models.Sector{UserID: userID, Name: name}
	if err := s.db.Create(sector).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateSector
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sector, nil
}

// GetUserSectors returns the user's sectors ordered by name.
func (s *sectorService) GetUserSectors(userID string) ([]models.Sector, error) {
	sectors := []models.Sector{}
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&sectors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sectors, nil
}

// GetSectorByID returns one of the user's sectors.
func (s *sectorService) GetSectorByID(userID, sectorID string) (*models.Sector, error) {
	var sector models.Sector
	if err := s.db.Where("id = ? AND user_id = ?", sectorID, userID).First(&sector).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSectorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sector, nil
}

// DeleteSector removes the sector and detaches the user's alerts from it.
func (s *sectorService) DeleteSector(userID, sectorID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sector models.Sector
		if err := tx.Where("id = ? AND user_id = ?", sectorID, userID).First(&sector).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrSectorNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&models.UserAlert{}).
			Where("user_id = ? AND sector_id = ?", userID, sectorID).
			Update("sector_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Unscoped().Delete(&sector).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stockwatch/internal/alertengine"
	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
	"stockwatch/internal/pricing"
)

// portfolioService values a user's holdings against live quotes.
type portfolioService struct {
	db          *gorm.DB
	quoter      pricing.Quoter
	concurrency int
}

// NewPortfolioService creates a new PortfolioServicer that quotes at most
// concurrency companies at a time.
func NewPortfolioService(db *gorm.DB, quoter pricing.Quoter, concurrency int) PortfolioServicer {
	return &portfolioService{db: db, quoter: quoter, concurrency: concurrency}
}

// GetPortfolio values the user's portfolio holdings, or every holding of a
// sector when sectorID is set. Holdings without a usable quote are valued at
// their baseline and counted in UnquotedHoldings.
func (s *portfolioService) GetPortfolio(ctx context.Context, userID, sectorID string) (*PortfolioReport, error) {
	if sectorID != "" {
		var count int64
		if err := s.db.Model(&models.Sector{}).Where("id = ? AND user_id = ?", sectorID, userID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrSectorNotFound
		}
	}

	var alerts []models.UserAlert
	if err := s.db.Preload("Stock").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&alerts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	holdings := make([]alertengine.Holding, 0, len(alerts))
	for i := range alerts {
		holdings = append(holdings, alerts[i].Holding())
	}
	holdings = alertengine.FilterBySector(holdings, sectorID)

	names := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if h.IsPortfolio && h.SharesCount > 0 {
			names = append(names, h.CompanyName)
		}
	}
	quotes := pricing.QuoteMany(ctx, s.quoter, names, s.concurrency)

	rows := alertengine.HoldingValuations(holdings, quotes)
	unquoted := 0
	for _, r := range rows {
		if !r.Quoted {
			unquoted++
		}
	}

	return &PortfolioReport{
		SectorID:          sectorID,
		PortfolioSnapshot: alertengine.AggregatePortfolio(holdings, quotes),
		Holdings:          rows,
		UnquotedHoldings:  unquoted,
		GeneratedAt:       time.Now().UTC(),
	}, nil
}

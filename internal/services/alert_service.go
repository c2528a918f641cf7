package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockwatch/internal/alertengine"
	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
	"stockwatch/internal/pagination"
	"stockwatch/internal/pricing"
)

// Default thresholds applied when an alert is created without them.
var (
	DefaultGainThreshold = decimal.NewFromInt(10)
	DefaultLossThreshold = decimal.NewFromInt(5)
)

// alertService handles alert-related business logic.
type alertService struct {
	db     *gorm.DB
	quoter pricing.Quoter
}

// NewAlertService creates a new AlertServicer. The quoter resolves baselines
// for alerts created without one and backs EvaluateAlert.
func NewAlertService(db *gorm.DB, quoter pricing.Quoter) AlertServicer {
	return &alertService{db: db, quoter: quoter}
}

// CreateAlert creates an alert for the user, upserting the stock by company
// name when no stock ID is given.
func (s *alertService) CreateAlert(ctx context.Context, userID string, in CreateAlertInput) (*models.UserAlert, error) {
	gain := DefaultGainThreshold
	if in.GainThresholdPercent != nil {
		gain = *in.GainThresholdPercent
	}
	loss := DefaultLossThreshold
	if in.LossThresholdPercent != nil {
		loss = *in.LossThresholdPercent
	}
	if gain.IsNegative() || loss.IsNegative() {
		return nil, apperrors.ErrInvalidThreshold
	}
	if in.SharesCount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Shares count cannot be negative")
	}
	if in.IsPortfolio && in.SharesCount == 0 {
		return nil, apperrors.ErrSharesRequired
	}

	sectorID, err := s.ownedSectorID(userID, in.SectorID)
	if err != nil {
		return nil, err
	}

	stock, err := s.resolveStock(in)
	if err != nil {
		return nil, err
	}

	var baseline decimal.Decimal
	if in.BaselinePrice != nil {
		baseline = *in.BaselinePrice
	} else {
		quote := s.quoter.Quote(ctx, stock.CompanyName)
		if !quote.Usable() {
			return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, errors.New(quote.Error))
		}
		baseline = quote.Price
	}
	if !baseline.IsPositive() {
		return nil, apperrors.ErrInvalidBaseline
	}

	alert := &models.UserAlert{
		UserID:               userID,
		StockID:              stock.ID,
		BaselinePrice:        baseline,
		GainThresholdPercent: gain,
		LossThresholdPercent: loss,
		IsActive:             true,
		IsPortfolio:          in.IsPortfolio,
		SharesCount:          in.SharesCount,
		SectorID:             sectorID,
	}
	if err := s.db.Create(alert).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetAlertByID(userID, alert.ID)
}

// resolveStock finds the stock by ID or upserts it by company name.
func (s *alertService) resolveStock(in CreateAlertInput) (*models.Stock, error) {
	if in.StockID != "" {
		var stock models.Stock
		if err := s.db.Where("id = ?", in.StockID).First(&stock).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrStockNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &stock, nil
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Either stock_id or company_name is required")
	}
	return upsertStock(s.db, in.CompanyName, in.Symbol, in.Exchange)
}

// ownedSectorID checks that a requested sector belongs to the user. An empty
// ID means no sector.
func (s *alertService) ownedSectorID(userID string, sectorID *string) (*string, error) {
	if sectorID == nil || *sectorID == "" {
		return nil, nil
	}
	var count int64
	if err := s.db.Model(&models.Sector{}).Where("id = ? AND user_id = ?", *sectorID, userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrSectorNotFound
	}
	id := *sectorID
	return &id, nil
}

// GetAlertByID returns one of the user's alerts with its stock and sector.
func (s *alertService) GetAlertByID(userID, alertID string) (*models.UserAlert, error) {
	var alert models.UserAlert
	if err := s.db.Preload("Stock").Preload("Sector").
		Where("id = ? AND user_id = ?", alertID, userID).First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAlertNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &alert, nil
}

// GetUserAlerts returns a paginated list of the user's alerts, newest first.
// With a sector filter, only alerts of that sector are returned, whether or
// not they are portfolio holdings.
func (s *alertService) GetUserAlerts(userID string, filter AlertFilter, page pagination.PageRequest) (*pagination.PageResponse[models.UserAlert], error) {
	page.Defaults()

	base := s.db.Model(&models.UserAlert{}).Where("user_id = ?", userID)
	if filter.SectorID != "" {
		base = base.Where("sector_id = ?", filter.SectorID)
	}
	if filter.IsPortfolio != nil {
		base = base.Where("is_portfolio = ?", *filter.IsPortfolio)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var alerts []models.UserAlert
	if err := base.Preload("Stock").Preload("Sector").
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&alerts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(alerts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateAlert applies the non-nil fields of in to the user's alert.
func (s *alertService) UpdateAlert(userID, alertID string, in UpdateAlertInput) (*models.UserAlert, error) {
	alert, err := s.GetAlertByID(userID, alertID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.BaselinePrice != nil {
		if !in.BaselinePrice.IsPositive() {
			return nil, apperrors.ErrInvalidBaseline
		}
		updates["baseline_price"] = *in.BaselinePrice
	}
	if in.GainThresholdPercent != nil {
		if in.GainThresholdPercent.IsNegative() {
			return nil, apperrors.ErrInvalidThreshold
		}
		updates["gain_threshold_percent"] = *in.GainThresholdPercent
	}
	if in.LossThresholdPercent != nil {
		if in.LossThresholdPercent.IsNegative() {
			return nil, apperrors.ErrInvalidThreshold
		}
		updates["loss_threshold_percent"] = *in.LossThresholdPercent
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	isPortfolio := alert.IsPortfolio
	if in.IsPortfolio != nil {
		isPortfolio = *in.IsPortfolio
		updates["is_portfolio"] = isPortfolio
	}
	shares := alert.SharesCount
	if in.SharesCount != nil {
		shares = *in.SharesCount
		if shares < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Shares count cannot be negative")
		}
		updates["shares_count"] = shares
	}
	if isPortfolio && shares == 0 {
		return nil, apperrors.ErrSharesRequired
	}

	switch {
	case in.ClearSector:
		updates["sector_id"] = nil
	case in.SectorID != nil:
		sectorID, err := s.ownedSectorID(userID, in.SectorID)
		if err != nil {
			return nil, err
		}
		updates["sector_id"] = sectorID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.UserAlert{}).Where("id = ?", alert.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetAlertByID(userID, alertID)
}

// DeleteAlert removes the user's alert, and its stock when no other alert
// references it.
func (s *alertService) DeleteAlert(userID, alertID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var alert models.UserAlert
		if err := tx.Where("id = ? AND user_id = ?", alertID, userID).First(&alert).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrAlertNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Where("alert_id = ?", alert.ID).Delete(&models.AlertLog{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Delete(&alert).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var remaining int64
		if err := tx.Unscoped().Model(&models.UserAlert{}).Where("stock_id = ?", alert.StockID).Count(&remaining).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if remaining > 0 {
			return nil
		}

		if err := tx.Where("stock_id = ?", alert.StockID).Delete(&models.PriceHistory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Where("id = ?", alert.StockID).Delete(&models.Stock{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// EvaluateAlert quotes the alert's stock and checks it against the thresholds.
func (s *alertService) EvaluateAlert(ctx context.Context, userID, alertID string) (*alertengine.HoldingEvaluation, error) {
	alert, err := s.GetAlertByID(userID, alertID)
	if err != nil {
		return nil, err
	}

	quote := s.quoter.Quote(ctx, alert.Stock.CompanyName)
	ev, err := alertengine.EvaluateHolding(alert.Holding(), quote)
	if err != nil {
		switch {
		case errors.Is(err, alertengine.ErrQuoteUnavailable):
			return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, errors.New(quote.Error))
		case errors.Is(err, alertengine.ErrInvalidBaseline):
			return nil, apperrors.ErrInvalidBaseline
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &ev, nil
}

// GetActiveAlerts returns every active alert with its stock and user loaded.
func (s *alertService) GetActiveAlerts() ([]models.UserAlert, error) {
	alerts := []models.UserAlert{}
	if err := s.db.Preload("Stock").Preload("User").
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&alerts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alerts, nil
}

// RecordTrigger stores a triggered-alert log entry.
func (s *alertService) RecordTrigger(entry *models.AlertLog) error {
	if err := s.db.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetAlertLogs returns the user's triggered alerts, newest first.
func (s *alertService) GetAlertLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AlertLog], error) {
	page.Defaults()

	base := s.db.Model(&models.AlertLog{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var logs []models.AlertLog
	if err := base.Preload("Stock").
		Order("triggered_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(logs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

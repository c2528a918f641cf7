package models

import (
	"github.com/shopspring/decimal"

	"stockwatch/internal/alertengine"
)

// UserAlert is a user's watch on a stock: a gain/loss alert around a baseline
// price and, when IsPortfolio is set, a position of SharesCount shares.
type UserAlert struct {
	Base
	UserID               string          `gorm:"type:uuid;not null;index" json:"user_id"`
	StockID              string          `gorm:"type:uuid;not null;index" json:"stock_id"`
	BaselinePrice        decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"baseline_price"`
	GainThresholdPercent decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"gain_threshold_percent"`
	LossThresholdPercent decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"loss_threshold_percent"`
	IsActive             bool            `gorm:"not null;default:true" json:"is_active"`
	IsPortfolio          bool            `gorm:"not null;default:false" json:"is_portfolio"`
	SharesCount          int64           `gorm:"not null;default:0" json:"shares_count"`
	SectorID             *string         `gorm:"type:uuid;index" json:"sector_id,omitempty"`

	// Relationships
	Stock  Stock   `gorm:"foreignKey:StockID" json:"stock"`
	Sector *Sector `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
	User   User    `gorm:"foreignKey:UserID" json:"-"`
}

// Holding converts the alert into the engine's view of it. The Stock
// relationship must be loaded.
func (a *UserAlert) Holding() alertengine.Holding {
	h := alertengine.Holding{
		ID:                   a.ID,
		CompanyName:          a.Stock.CompanyName,
		BaselinePrice:        a.BaselinePrice,
		SharesCount:          a.SharesCount,
		GainThresholdPercent: a.GainThresholdPercent,
		LossThresholdPercent: a.LossThresholdPercent,
		IsPortfolio:          a.IsPortfolio,
	}
	if a.SectorID != nil {
		h.SectorID = *a.SectorID
	}
	return h
}

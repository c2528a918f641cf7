package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockwatch/internal/uuid"
)

// AlertType is the direction of a triggered alert as stored in alert_logs.
type AlertType string

const (
	AlertTypeGain AlertType = "GAIN"
	AlertTypeLoss AlertType = "LOSS"
)

// AlertLog records one triggered alert. Immutable, like PriceHistory.
type AlertLog struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	AlertID       string          `gorm:"type:uuid;not null;index" json:"alert_id"`
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	StockID       string          `gorm:"type:uuid;not null" json:"stock_id"`
	TriggerPrice  decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"trigger_price"`
	BaselinePrice decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"baseline_price"`
	PercentChange decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"percent_change"`
	AlertType     AlertType       `gorm:"not null" json:"alert_type"`
	Message       string          `gorm:"not null" json:"message"`
	TriggeredAt   time.Time       `gorm:"not null;index" json:"triggered_at"`
	Stock         Stock           `gorm:"foreignKey:StockID" json:"stock,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (l *AlertLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New()
	}
	return nil
}

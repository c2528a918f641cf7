package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockwatch/internal/uuid"
)

// PriceHistory is an observed price for a stock.
// Rows are immutable, so there is no Base embed and no soft delete.
type PriceHistory struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"id"`
	StockID    string          `gorm:"type:uuid;not null;uniqueIndex:uq_price_history_stock_time" json:"stock_id"`
	Price      decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"price"`
	RecordedAt time.Time       `gorm:"not null;uniqueIndex:uq_price_history_stock_time" json:"recorded_at"`
}

// TableName keeps the table name singular to match the migrations.
func (PriceHistory) TableName() string { return "price_history" }

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PriceHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange is an Indian stock exchange code.
type Exchange string

const (
	ExchangeNSE Exchange = "NSE"
	ExchangeBSE Exchange = "BSE"
)

// Stock is a listed company. Stocks are shared across users and keyed by
// company name, the identifier the price lookup searches with.
type Stock struct {
	Base
	CompanyName  string          `gorm:"not null;uniqueIndex" json:"company_name"`
	Symbol       string          `json:"symbol,omitempty"`
	Exchange     Exchange        `gorm:"not null;default:'NSE'" json:"exchange"`
	CurrentPrice decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"current_price"`
	LastPriceAt  *time.Time      `json:"last_price_at,omitempty"`
}

package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockwatch/internal/alertengine"
	"stockwatch/internal/models"
	"stockwatch/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, username, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(identifier, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// SectorServicer defines the contract for sector-related business logic.
type SectorServicer interface {
	CreateSector(userID, name string) (*models.Sector, error)
	GetUserSectors(userID string) ([]models.Sector, error)
	GetSectorByID(userID, sectorID string) (*models.Sector, error)
	DeleteSector(userID, sectorID string) error
}

// PriceInput is one observed price to record.
type PriceInput struct {
	StockID    string
	Price      decimal.Decimal
	RecordedAt time.Time
}

// StockServicer defines the contract for stock-related business logic.
type StockServicer interface {
	UpsertStock(companyName, symbol string, exchange models.Exchange) (*models.Stock, error)
	GetStockByID(id string) (*models.Stock, error)
	ListStocks(search string, page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
	ListAllStocks() ([]models.Stock, error)
	RecordPrices(prices []PriceInput) (int, error)
}

// CreateAlertInput holds the fields of a new alert. Either StockID or
// CompanyName identifies the stock. Nil thresholds take the defaults and a
// nil baseline takes the live price.
type CreateAlertInput struct {
	StockID              string
	CompanyName          string
	Symbol               string
	Exchange             models.Exchange
	BaselinePrice        *decimal.Decimal
	GainThresholdPercent *decimal.Decimal
	LossThresholdPercent *decimal.Decimal
	IsPortfolio          bool
	SharesCount          int64
	SectorID             *string
}

// UpdateAlertInput holds the fields to change on an alert. Nil fields are left alone.
type UpdateAlertInput struct {
	BaselinePrice        *decimal.Decimal
	GainThresholdPercent *decimal.Decimal
	LossThresholdPercent *decimal.Decimal
	IsActive             *bool
	IsPortfolio          *bool
	SharesCount          *int64
	SectorID             *string
	ClearSector          bool
}

// AlertFilter holds optional filter parameters for listing alerts.
type AlertFilter struct {
	SectorID    string
	IsPortfolio *bool
	IsActive    *bool
}

// AlertServicer defines the contract for alert-related business logic.
type AlertServicer interface {
	CreateAlert(ctx context.Context, userID string, in CreateAlertInput) (*models.UserAlert, error)
	GetAlertByID(userID, alertID string) (*models.UserAlert, error)
	GetUserAlerts(userID string, filter AlertFilter, page pagination.PageRequest) (*pagination.PageResponse[models.UserAlert], error)
	UpdateAlert(userID, alertID string, in UpdateAlertInput) (*models.UserAlert, error)
	DeleteAlert(userID, alertID string) error
	EvaluateAlert(ctx context.Context, userID, alertID string) (*alertengine.HoldingEvaluation, error)
	GetActiveAlerts() ([]models.UserAlert, error)
	RecordTrigger(entry *models.AlertLog) error
	GetAlertLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AlertLog], error)
}

// PortfolioReport is a valued view of a user's holdings.
type PortfolioReport struct {
	SectorID string `json:"sector_id,omitempty"`
	alertengine.PortfolioSnapshot
	Holdings         []alertengine.HoldingValuation `json:"holdings"`
	UnquotedHoldings int                            `json:"unquoted_holdings"`
	GeneratedAt      time.Time                      `json:"generated_at"`
}

// PortfolioServicer defines the contract for portfolio analytics.
type PortfolioServicer interface {
	GetPortfolio(ctx context.Context, userID, sectorID string) (*PortfolioReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

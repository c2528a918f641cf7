package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"stockwatch/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email and username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWith(t, db, fmt.Sprintf("user%d@test.com", n), fmt.Sprintf("user%d", n))
}

// CreateTestUserWith creates a user with the given email and username.
func CreateTestUserWith(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestSector creates a sector owned by userID.
func CreateTestSector(t *testing.T, db *gorm.DB, userID, name string) *models.Sector {
	t.Helper()

	sector := &models.Sector{UserID: userID, Name: name}
	if err := db.Create(sector).Error; err != nil {
		t.Fatalf("failed to create test sector: %v", err)
	}
	return sector
}

// CreateTestStock creates an NSE stock with the given company name.
func CreateTestStock(t *testing.T, db *gorm.DB, companyName string) *models.Stock {
	t.Helper()

	stock := &models.Stock{
		CompanyName: companyName,
		Symbol:      fmt.Sprintf("TST%d", nextID()),
		Exchange:    models.ExchangeNSE,
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return stock
}

// CreateTestAlert creates an active alert with 10% gain and 5% loss thresholds.
func CreateTestAlert(t *testing.T, db *gorm.DB, userID string, stock *models.Stock, baseline string) *models.UserAlert {
	t.Helper()

	alert := &models.UserAlert{
		UserID:               userID,
		StockID:              stock.ID,
		BaselinePrice:        decimal.RequireFromString(baseline),
		GainThresholdPercent: decimal.NewFromInt(10),
		LossThresholdPercent: decimal.NewFromInt(5),
		IsActive:             true,
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("failed to create test alert: %v", err)
	}
	alert.Stock = *stock
	return alert
}

// CreateTestHolding creates a portfolio alert of shares at baseline, optionally in a sector.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID string, stock *models.Stock, baseline string, shares int64, sectorID *string) *models.UserAlert {
	t.Helper()

	alert := &models.UserAlert{
		UserID:               userID,
		StockID:              stock.ID,
		BaselinePrice:        decimal.RequireFromString(baseline),
		GainThresholdPercent: decimal.NewFromInt(10),
		LossThresholdPercent: decimal.NewFromInt(5),
		IsActive:             true,
		IsPortfolio:          true,
		SharesCount:          shares,
		SectorID:             sectorID,
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	alert.Stock = *stock
	return alert
}

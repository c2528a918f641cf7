package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
	"stockwatch/internal/pagination"
)

// stockService handles stock-related business logic.
type stockService struct {
	db *gorm.DB
}

// NewStockService creates a new StockServicer.
func NewStockService(db *gorm.DB) StockServicer {
	return &stockService{db: db}
}

// UpsertStock returns the stock with the given company name, creating it if
// needed. A non-empty symbol or exchange overwrites the stored one.
func (s *stockService) UpsertStock(companyName, symbol string, exchange models.Exchange) (*models.Stock, error) {
	return upsertStock(s.db, companyName, symbol, exchange)
}

func upsertStock(db *gorm.DB, companyName, symbol string, exchange models.Exchange) (*models.Stock, error) {
	companyName = strings.TrimSpace(companyName)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if companyName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Company name is required")
	}

	var stock models.Stock
	err := db.Where("company_name = ?", companyName).First(&stock).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{}
		if symbol != "" && symbol != stock.Symbol {
			updates["symbol"] = symbol
		}
		if exchange != "" && exchange != stock.Exchange {
			updates["exchange"] = exchange
		}
		if len(updates) > 0 {
			if err := db.Model(&stock).Updates(updates).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return &stock, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if exchange == "" {
		exchange = models.ExchangeNSE
	}
	stock = models.Stock{CompanyName: companyName, Symbol: symbol, Exchange: exchange}
	if err := db.Create(&stock).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Lost a race with a concurrent insert.
			if err := db.Where("company_name = ?", companyName).First(&stock).Error; err == nil {
				return &stock, nil
			}
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// GetStockByID returns a stock by its ID.
func (s *stockService) GetStockByID(id string) (*models.Stock, error) {
	var stock models.Stock
	if err := s.db.Where("id = ?", id).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// ListStocks returns a paginated list of stocks ordered by company name,
// optionally filtered by a case-insensitive name or symbol search.
func (s *stockService) ListStocks(search string, page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	page.Defaults()

	base := s.db.Model(&models.Stock{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		base = base.Where("LOWER(company_name) LIKE ? OR LOWER(symbol) LIKE ?", like, like)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stocks []models.Stock
	if err := base.Order("company_name ASC").Scopes(pagination.Paginate(page)).Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(stocks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListAllStocks returns every stock ordered by company name.
func (s *stockService) ListAllStocks() ([]models.Stock, error) {
	stocks := []models.Stock{}
	if err := s.db.Order("company_name ASC").Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return stocks, nil
}

// RecordPrices inserts price entries, skipping duplicates per (stock,
// recorded_at), and moves each stock's current price forward. Returns the
// number of new entries.
func (s *stockService) RecordPrices(prices []PriceInput) (int, error) {
	if len(prices) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Prices array is empty")
	}

	ids := make([]string, 0, len(prices))
	for _, p := range prices {
		if !p.Price.IsPositive() {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Prices must be greater than zero")
		}
		if p.RecordedAt.IsZero() {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "recorded_at is required")
		}
		ids = append(ids, p.StockID)
	}

	var known int64
	if err := s.db.Model(&models.Stock{}).Where("id IN ?", uniqueStrings(ids)).Count(&known).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if int(known) != len(uniqueStrings(ids)) {
		return 0, apperrors.ErrStockNotFound
	}

	count := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range prices {
			recordedAt := p.RecordedAt.UTC()
			entry := models.PriceHistory{StockID: p.StockID, Price: p.Price, RecordedAt: recordedAt}
			result := tx.Where("stock_id = ? AND recorded_at = ?", p.StockID, recordedAt).FirstOrCreate(&entry)
			if result.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
			}
			if result.RowsAffected == 0 {
				continue
			}
			count++

			if err := tx.Model(&models.Stock{}).
				Where("id = ? AND (last_price_at IS NULL OR last_price_at < ?)", p.StockID, recordedAt).
				Updates(map[string]interface{}{"current_price": p.Price, "last_price_at": recordedAt}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

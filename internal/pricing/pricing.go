// Package pricing resolves Indian company names to live prices, either from
// Yahoo Finance directly or from a remote price-lookup service.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockwatch/internal/alertengine"
)

// ErrCompanyNotFound is returned when no NSE or BSE listing matches a company name.
var ErrCompanyNotFound = errors.New("company not found")

// Quoter returns the live price for a company. Lookup failures are reported
// in the quote itself (Success=false), never as an error.
type Quoter interface {
	Quote(ctx context.Context, companyName string) alertengine.PriceQuote
}

// DetailLookup returns price and trading-range details for a company.
type DetailLookup interface {
	Details(ctx context.Context, companyName string) (*StockDetails, error)
}

// Source is a full price source.
type Source interface {
	Quoter
	DetailLookup
}

// StockDetails describes a listing and its current trading range.
type StockDetails struct {
	CompanyName string          `json:"company_name"`
	Symbol      string          `json:"symbol"`
	Exchange    string          `json:"exchange"`
	Price       decimal.Decimal `json:"price"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	MarketCap   decimal.Decimal `json:"market_cap"`
	Description string          `json:"description"`
}

// Quote converts the details into a price quote for the requested name.
func (d *StockDetails) Quote(companyName string) alertengine.PriceQuote {
	if !d.Price.IsPositive() {
		return alertengine.FailedQuote(companyName, fmt.Errorf("no price for %s", companyName))
	}
	return alertengine.PriceQuote{CompanyName: companyName, Price: d.Price, Success: true}
}

// RangePosition places the current price within the 52-week range.
func (d *StockDetails) RangePosition() alertengine.RangePosition {
	return alertengine.ComputeRangePosition(d.Price, d.High, d.Low)
}

// New returns a RemoteClient when baseURL is set and a YahooProvider otherwise.
func New(baseURL string, httpClient *http.Client, requestsPerSecond float64, logger *zap.SugaredLogger) Source {
	if baseURL != "" {
		logger.Infow("using remote price service", "url", baseURL)
		return NewRemoteClient(baseURL, httpClient, requestsPerSecond)
	}
	logger.Info("using Yahoo Finance for prices")
	return NewYahooProvider(httpClient, WithRateLimit(requestsPerSecond), WithLogger(logger))
}

// Package alertengine computes price changes, threshold crossings and portfolio
// totals for watched holdings. Every function is pure: callers pass in store rows
// and already-resolved quotes, and get plain values back.
package alertengine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidBaseline is returned when a baseline price is zero or negative.
	ErrInvalidBaseline = errors.New("baseline price must be greater than zero")

	// ErrQuoteUnavailable is returned when a holding is evaluated without a usable quote.
	ErrQuoteUnavailable = errors.New("no usable quote for holding")

	// ErrMissingShares is returned by Holding.Validate for portfolio holdings without shares.
	ErrMissingShares = errors.New("portfolio holdings need a positive share count")
)

var hundred = decimal.NewFromInt(100)

// Direction classifies a threshold crossing.
type Direction string

const (
	DirectionGain Direction = "gain"
	DirectionLoss Direction = "loss"
	DirectionNone Direction = "none"
)

// Holding is a tracked stock position: a plain price alert, or a portfolio
// position when IsPortfolio is set.
type Holding struct {
	ID                   string          `json:"id"`
	CompanyName          string          `json:"company_name"`
	BaselinePrice        decimal.Decimal `json:"baseline_price"`
	SharesCount          int64           `json:"shares_count,omitempty"`
	GainThresholdPercent decimal.Decimal `json:"gain_threshold_percent"`
	LossThresholdPercent decimal.Decimal `json:"loss_threshold_percent"`
	IsPortfolio          bool            `json:"is_portfolio"`
	SectorID             string          `json:"sector_id,omitempty"`
}

// Validate checks the holding invariants.
func (h Holding) Validate() error {
	if !h.BaselinePrice.IsPositive() {
		return fmt.Errorf("holding %s: %w", h.ID, ErrInvalidBaseline)
	}
	if h.SharesCount < 0 {
		return fmt.Errorf("holding %s: share count cannot be negative", h.ID)
	}
	if h.IsPortfolio && h.SharesCount <= 0 {
		return fmt.Errorf("holding %s: %w", h.ID, ErrMissingShares)
	}
	return nil
}

// PriceQuote is a live price observation produced by a price lookup.
type PriceQuote struct {
	CompanyName string          `json:"company_name"`
	Price       decimal.Decimal `json:"price"`
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
}

// Usable reports whether the quote can be used for valuation.
func (q PriceQuote) Usable() bool {
	return q.Success && q.Price.IsPositive()
}

// FailedQuote builds an unsuccessful quote for companyName.
func FailedQuote(companyName string, err error) PriceQuote {
	q := PriceQuote{CompanyName: companyName}
	if err != nil {
		q.Error = err.Error()
	}
	return q
}

// Evaluation is the result of a threshold check.
type Evaluation struct {
	Triggered bool      `json:"triggered"`
	Direction Direction `json:"direction"`
}

// PortfolioSnapshot aggregates the value of all portfolio holdings.
type PortfolioSnapshot struct {
	TotalInvestment decimal.Decimal `json:"total_investment"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	TotalGain       decimal.Decimal `json:"total_gain"`
	GainPercentage  decimal.Decimal `json:"gain_percentage"`
}

// ComputeChange returns the signed percentage change from baseline to live.
func ComputeChange(baseline, live decimal.Decimal) (decimal.Decimal, error) {
	if !baseline.IsPositive() {
		return decimal.Zero, ErrInvalidBaseline
	}
	return live.Sub(baseline).Div(baseline).Mul(hundred), nil
}

// EvaluateThreshold classifies percent against the gain and loss thresholds.
// The loss threshold is a magnitude: a loss of 5 triggers at -5% or below.
// If both conditions hold, gain wins.
func EvaluateThreshold(percent, gainThreshold, lossThreshold decimal.Decimal) Evaluation {
	switch {
	case percent.GreaterThanOrEqual(gainThreshold):
		return Evaluation{Triggered: true, Direction: DirectionGain}
	case percent.LessThanOrEqual(lossThreshold.Neg()):
		return Evaluation{Triggered: true, Direction: DirectionLoss}
	default:
		return Evaluation{Triggered: false, Direction: DirectionNone}
	}
}

// AggregatePortfolio totals the portfolio holdings that carry shares. A holding
// whose quote is missing or failed is valued at its baseline.
func AggregatePortfolio(holdings []Holding, quotes map[string]PriceQuote) PortfolioSnapshot {
	var snap PortfolioSnapshot
	for _, v := range HoldingValuations(holdings, quotes) {
		snap.TotalInvestment = snap.TotalInvestment.Add(v.Invested)
		snap.CurrentValue = snap.CurrentValue.Add(v.Current)
	}
	snap.TotalGain = snap.CurrentValue.Sub(snap.TotalInvestment)
	snap.GainPercentage = percentOf(snap.TotalGain, snap.TotalInvestment)
	return snap
}

// FilterBySector returns the portfolio holdings when sectorID is empty, and the
// holdings of that sector (portfolio or not) otherwise. Input order is kept.
func FilterBySector(holdings []Holding, sectorID string) []Holding {
	out := make([]Holding, 0, len(holdings))
	for _, h := range holdings {
		if sectorID == "" {
			if h.IsPortfolio {
				out = append(out, h)
			}
			continue
		}
		if h.SectorID == sectorID {
			out = append(out, h)
		}
	}
	return out
}

// percentOf returns part/whole*100, or zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

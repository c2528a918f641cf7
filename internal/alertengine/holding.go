package alertengine

import "github.com/shopspring/decimal"

// HoldingEvaluation is the live state of a single holding against its thresholds.
type HoldingEvaluation struct {
	HoldingID     string          `json:"holding_id"`
	CompanyName   string          `json:"company_name"`
	BaselinePrice decimal.Decimal `json:"baseline_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PercentChange decimal.Decimal `json:"percent_change"`
	Evaluation
}

// EvaluateHolding computes the change of a holding against a usable quote and
// classifies it.
func EvaluateHolding(h Holding, q PriceQuote) (HoldingEvaluation, error) {
	if !q.Usable() {
		return HoldingEvaluation{}, ErrQuoteUnavailable
	}
	pct, err := ComputeChange(h.BaselinePrice, q.Price)
	if err != nil {
		return HoldingEvaluation{}, err
	}
	return HoldingEvaluation{
		HoldingID:     h.ID,
		CompanyName:   h.CompanyName,
		BaselinePrice: h.BaselinePrice,
		CurrentPrice:  q.Price,
		PercentChange: pct,
		Evaluation:    EvaluateThreshold(pct, h.GainThresholdPercent, h.LossThresholdPercent),
	}, nil
}

// HoldingValuation is one row of a portfolio breakdown.
type HoldingValuation struct {
	HoldingID      string          `json:"holding_id"`
	CompanyName    string          `json:"company_name"`
	SharesCount    int64           `json:"shares_count"`
	Invested       decimal.Decimal `json:"invested"`
	Current        decimal.Decimal `json:"current"`
	Gain           decimal.Decimal `json:"gain"`
	GainPercentage decimal.Decimal `json:"gain_percentage"`
	// Quoted is false when the row fell back to its baseline valuation.
	Quoted bool `json:"quoted"`
}

// HoldingValuations values every portfolio holding with shares, in input order.
func HoldingValuations(holdings []Holding, quotes map[string]PriceQuote) []HoldingValuation {
	rows := make([]HoldingValuation, 0, len(holdings))
	for _, h := range holdings {
		if !h.IsPortfolio || h.SharesCount <= 0 {
			continue
		}
		shares := decimal.NewFromInt(h.SharesCount)
		invested := h.BaselinePrice.Mul(shares)
		current := invested
		q, ok := quotes[h.CompanyName]
		quoted := ok && q.Usable()
		if quoted {
			current = q.Price.Mul(shares)
		}
		gain := current.Sub(invested)
		rows = append(rows, HoldingValuation{
			HoldingID:      h.ID,
			CompanyName:    h.CompanyName,
			SharesCount:    h.SharesCount,
			Invested:       invested,
			Current:        current,
			Gain:           gain,
			GainPercentage: percentOf(gain, invested),
			Quoted:         quoted,
		})
	}
	return rows
}

// RangePosition places a price within its trading range. A nil field means the
// reference price was missing or not positive.
type RangePosition struct {
	PctFallenFromHigh *decimal.Decimal `json:"pct_fallen_from_high"`
	PctGainedFromLow  *decimal.Decimal `json:"pct_gained_from_low"`
}

// ComputeRangePosition returns how far price sits below high and above low.
func ComputeRangePosition(price, high, low decimal.Decimal) RangePosition {
	var rp RangePosition
	if high.IsPositive() {
		v := high.Sub(price).Mul(hundred).Div(high)
		rp.PctFallenFromHigh = &v
	}
	if low.IsPositive() {
		v := price.Sub(low).Mul(hundred).Div(low)
		rp.PctGainedFromLow = &v
	}
	return rp
}
